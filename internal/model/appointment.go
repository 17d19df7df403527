package model

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = StatusPending
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = StatusCompleted
	AppointmentStatusCancelled AppointmentStatus = StatusCancelled
)

var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
}

type Appointment struct {
	Base
	PatientID       int64             `json:"patientId"`
	PatientName     string            `json:"patientName"`
	DoctorID        int64             `json:"doctorId"`
	DoctorName      string            `json:"doctorName"`
	AppointmentDate string            `json:"appointmentDate"`
	AppointmentTime string            `json:"appointmentTime,omitempty"`
	Reason          string            `json:"reason,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Status          AppointmentStatus `json:"status"`
}

type CreateAppointmentRequest struct {
	PatientID       int64  `json:"patientId" validate:"required,gt=0"`
	DoctorID        int64  `json:"doctorId" validate:"required,gt=0"`
	AppointmentDate string `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	AppointmentTime string `json:"appointmentTime" validate:"omitempty,datetime=15:04"`
	Reason          string `json:"reason" validate:"required,max=500"`
	Notes           string `json:"notes,omitempty" validate:"max=1000"`
}

type UpdateAppointmentRequest struct {
	AppointmentDate *string            `json:"appointmentDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AppointmentTime *string            `json:"appointmentTime,omitempty" validate:"omitempty,datetime=15:04"`
	Reason          *string            `json:"reason,omitempty" validate:"omitempty,max=500"`
	Notes           *string            `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Status          *AppointmentStatus `json:"status,omitempty" validate:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
}
