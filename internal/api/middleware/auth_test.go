package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

func TestAuth(t *testing.T) {
	var gotActor domain.Actor
	var called bool

	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		actor, ok := GetActor(r.Context())
		require.True(t, ok)
		gotActor = actor
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid headers", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/1", nil)
		req.Header.Set("X-User-ID", "42")
		req.Header.Set("X-User-Role", "technical_staff")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
		assert.Equal(t, domain.Actor{ID: 42, Role: domain.RoleTechnicalStaff}, gotActor)
	})

	tests := []struct {
		name string
		id   string
		role string
	}{
		{name: "missing user id", id: "", role: "student"},
		{name: "non-numeric user id", id: "abc", role: "student"},
		{name: "zero user id", id: "0", role: "student"},
		{name: "negative user id", id: "-5", role: "student"},
		{name: "missing role", id: "42", role: ""},
		{name: "unknown role", id: "42", role: "superuser"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/1", nil)
			if tt.id != "" {
				req.Header.Set("X-User-ID", tt.id)
			}
			if tt.role != "" {
				req.Header.Set("X-User-Role", tt.role)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
		})
	}
}

func TestGetActor_EmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetActor(req.Context())
	assert.False(t, ok)
}
