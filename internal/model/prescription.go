package model

type PrescriptionStatus string

const (
	PrescriptionStatusActive    PrescriptionStatus = "ACTIVE"
	PrescriptionStatusCompleted PrescriptionStatus = StatusCompleted
	PrescriptionStatusCancelled PrescriptionStatus = StatusCancelled
)

type Medication struct {
	MedicineName string `json:"medicineName" validate:"required"`
	Dosage       string `json:"dosage" validate:"required"`
	Frequency    string `json:"frequency,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type Prescription struct {
	Base
	AppointmentID int64              `json:"appointmentId"`
	PatientID     int64              `json:"patientId"`
	PatientName   string             `json:"patientName"`
	DoctorID      int64              `json:"doctorId"`
	DoctorName    string             `json:"doctorName"`
	Diagnosis     string             `json:"diagnosis,omitempty"`
	Medications   []Medication       `json:"medications"`
	Notes         string             `json:"notes,omitempty"`
	IssuedDate    string             `json:"issuedDate,omitempty"`
	Status        PrescriptionStatus `json:"status"`
}

type CreatePrescriptionRequest struct {
	AppointmentID int64        `json:"appointmentId" validate:"required,gt=0"`
	PatientID     int64        `json:"patientId" validate:"required,gt=0"`
	DoctorID      int64        `json:"doctorId" validate:"required,gt=0"`
	Diagnosis     string       `json:"diagnosis" validate:"required"`
	Medications   []Medication `json:"medications" validate:"required,min=1,dive"`
	Notes         string       `json:"notes,omitempty" validate:"max=1000"`
}

type UpdatePrescriptionRequest struct {
	Diagnosis   *string             `json:"diagnosis,omitempty"`
	Medications []Medication        `json:"medications,omitempty" validate:"omitempty,dive"`
	Notes       *string             `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Status      *PrescriptionStatus `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE COMPLETED CANCELLED"`
}
