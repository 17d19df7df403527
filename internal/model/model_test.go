package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/smarthealth/pkg/errors"
	"github.com/jwalitptl/smarthealth/pkg/validator"
)

func TestBadgeFor(t *testing.T) {
	assert.Equal(t, Badge{Label: "Pending", Tone: ToneWarning}, BadgeFor("PENDING"))
	assert.Equal(t, Badge{Label: "Confirmed", Tone: ToneInfo}, BadgeFor(" confirmed "))
	assert.Equal(t, ToneSuccess, BadgeFor(string(AppointmentStatusCompleted)).Tone)
	assert.Equal(t, ToneDanger, BadgeFor(string(AppointmentStatusCancelled)).Tone)
	assert.Equal(t, Badge{Label: "ON_HOLD", Tone: ToneNeutral}, BadgeFor("ON_HOLD"))
}

func TestNextTestResultStatus(t *testing.T) {
	next, ok := NextTestResultStatus(TestResultStatusPending)
	assert.True(t, ok)
	assert.Equal(t, TestResultStatusInProgress, next)

	next, ok = NextTestResultStatus(next)
	assert.True(t, ok)
	assert.Equal(t, TestResultStatusCompleted, next)

	_, ok = NextTestResultStatus(next)
	assert.False(t, ok)
}

func TestRegisterRequestPreconditions(t *testing.T) {
	v := validator.New()

	req := RegisterRequest{
		FullName:        "Ann Lee",
		Email:           "ann@example.com",
		Password:        "Secret123",
		ConfirmPassword: "Secret124",
	}
	err := v.Validate(req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindPrecondition))
	assert.Equal(t, "Confirm password does not match", apperrors.UserMessage(err))

	req.ConfirmPassword = req.Password
	assert.NoError(t, v.Validate(req))
}

func TestChangePasswordPreconditions(t *testing.T) {
	v := validator.New()

	err := v.Validate(ChangePasswordRequest{CurrentPassword: "OldSecret1", NewPassword: "OldSecret1", ConfirmPassword: "OldSecret1"})
	require.Error(t, err)
	assert.Equal(t, "New password must differ from the current value", apperrors.UserMessage(err))

	assert.NoError(t, v.Validate(ChangePasswordRequest{CurrentPassword: "OldSecret1", NewPassword: "NewSecret1", ConfirmPassword: "NewSecret1"}))
}

func TestAppointmentJSON(t *testing.T) {
	raw := `{"id":7,"patientId":3,"patientName":"Ann Lee","doctorId":2,"doctorName":"Dr. Roy","appointmentDate":"2024-03-01","status":"CONFIRMED"}`

	var a Appointment
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	assert.Equal(t, int64(7), a.GetID())
	assert.Equal(t, AppointmentStatusConfirmed, a.Status)
	assert.Nil(t, a.CreatedAt)
}
