package entity

import "github.com/google/uuid"

// Actor identifies the caller of an operation.
type Actor struct {
	UserID uuid.UUID
	RoleID int
}

func (a Actor) IsAdmin() bool {
	return a.RoleID == RoleIDAdmin
}

// CanManage reports whether a may mutate a resource owned by ownerID.
func (a Actor) CanManage(ownerID uuid.UUID) bool {
	return a.UserID == ownerID || a.IsAdmin()
}

// Models lists every persisted entity, for migrations and tests.
func Models() []interface{} {
	models := []interface{}{&Role{}, &User{}}
	models = append(models, ProfileModels()...)
	return append(models, &Appointment{}, &Annonce{}, &Notification{}, &AuditLog{})
}
