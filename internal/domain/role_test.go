package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCapabilities(t *testing.T) {
	t.Run("student has no elevated capabilities", func(t *testing.T) {
		caps := RoleStudent.Capabilities()
		assert.False(t, caps.CanApprove)
		assert.False(t, caps.CanManageLabs)
		assert.False(t, caps.CanCancelAny)
		assert.False(t, caps.AutoApprove)
	})

	t.Run("technical staff approves but does not manage labs", func(t *testing.T) {
		caps := RoleTechnicalStaff.Capabilities()
		assert.True(t, caps.CanApprove)
		assert.True(t, caps.CanCancelAny)
		assert.False(t, caps.CanManageLabs)
		assert.False(t, caps.AutoApprove)
	})

	t.Run("lecture in charge has all capabilities", func(t *testing.T) {
		caps := RoleLectureInCharge.Capabilities()
		assert.True(t, caps.CanApprove)
		assert.True(t, caps.CanManageLabs)
		assert.True(t, caps.CanCancelAny)
		assert.True(t, caps.AutoApprove)
	})

	t.Run("unknown role has nothing", func(t *testing.T) {
		caps := Role("janitor").Capabilities()
		assert.Equal(t, Capabilities{}, caps)
	})
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("technical_staff")
	require.NoError(t, err)
	assert.Equal(t, RoleTechnicalStaff, role)

	_, err = ParseRole("admin")
	assert.Error(t, err)

	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestActorCan(t *testing.T) {
	actor := Actor{ID: 7, Role: RoleLectureInCharge}
	assert.True(t, actor.Can().AutoApprove)

	student := Actor{ID: 8, Role: RoleStudent}
	assert.False(t, student.Can().CanApprove)
}
