package domain

import "fmt"

// Role типизированная роль актора
// Роль приходит от шлюза аутентификации уже разрешённой
type Role string

const (
	// RoleStudent обычный заявитель, бронирует для себя
	RoleStudent Role = "student"

	// RoleTechnicalStaff первый уровень подтверждения (технический персонал)
	RoleTechnicalStaff Role = "technical_staff"

	// RoleLectureInCharge второй уровень подтверждения (ответственный преподаватель)
	RoleLectureInCharge Role = "lecture_in_charge"
)

// Capabilities возможности роли
// Таблица вычисляется один раз на запрос вместо разбросанных проверок
// принадлежности к спискам строк
type Capabilities struct {
	CanApprove    bool // подтверждать и отклонять чужие бронирования
	CanManageLabs bool // создавать и изменять лаборатории
	CanCancelAny  bool // отменять чужие бронирования
	AutoApprove   bool // собственные бронирования создаются сразу подтверждёнными
}

var roleCapabilities = map[Role]Capabilities{
	RoleStudent: {},
	RoleTechnicalStaff: {
		CanApprove:   true,
		CanCancelAny: true,
	},
	RoleLectureInCharge: {
		CanApprove:    true,
		CanManageLabs: true,
		CanCancelAny:  true,
		AutoApprove:   true,
	},
}

// Capabilities возвращает таблицу возможностей роли
// Неизвестная роль не имеет никаких возможностей
func (r Role) Capabilities() Capabilities {
	return roleCapabilities[r]
}

// ParseRole конвертирует строку в Role с валидацией
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if _, ok := roleCapabilities[role]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

// Actor аутентифицированный пользователь, выполняющий операцию
type Actor struct {
	ID   int64
	Role Role
}

// Can возвращает возможности актора
func (a Actor) Can() Capabilities {
	return a.Role.Capabilities()
}
