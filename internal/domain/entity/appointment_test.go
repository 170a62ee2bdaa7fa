package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAppointmentTransitions(t *testing.T) {
	assert.True(t, AppointmentPending.CanTransitionTo(AppointmentConfirmed))
	assert.True(t, AppointmentPending.CanTransitionTo(AppointmentCancelled))
	assert.False(t, AppointmentPending.CanTransitionTo(AppointmentCompleted))
	assert.True(t, AppointmentConfirmed.CanTransitionTo(AppointmentNoShow))
	assert.False(t, AppointmentCancelled.CanTransitionTo(AppointmentPending))

	for _, s := range []AppointmentStatus{AppointmentCancelled, AppointmentCompleted, AppointmentNoShow} {
		assert.True(t, s.IsTerminal(), s)
	}
	assert.False(t, AppointmentConfirmed.IsTerminal())
}

func TestActorCanManage(t *testing.T) {
	owner := uuid.New()

	assert.True(t, Actor{UserID: owner, RoleID: RoleIDMedecin}.CanManage(owner))
	assert.True(t, Actor{UserID: uuid.New(), RoleID: RoleIDAdmin}.CanManage(owner))
	assert.False(t, Actor{UserID: uuid.New(), RoleID: RoleIDPharmacie}.CanManage(owner))
}
