package model

type TestResultStatus string

const (
	TestResultStatusPending    TestResultStatus = StatusPending
	TestResultStatusInProgress TestResultStatus = "IN_PROGRESS"
	TestResultStatusCompleted  TestResultStatus = StatusCompleted
)

// NextTestResultStatus is the lab queue transition out of s. ok is false for
// the terminal state.
func NextTestResultStatus(s TestResultStatus) (next TestResultStatus, ok bool) {
	switch s {
	case TestResultStatusPending:
		return TestResultStatusInProgress, true
	case TestResultStatusInProgress:
		return TestResultStatusCompleted, true
	}
	return s, false
}

type TestResult struct {
	Base
	AppointmentID int64            `json:"appointmentId"`
	PatientID     int64            `json:"patientId"`
	PatientName   string           `json:"patientName"`
	TestType      string           `json:"testType"`
	TestDate      string           `json:"testDate,omitempty"`
	Result        string           `json:"result,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	FileName      string           `json:"fileName,omitempty"`
	Status        TestResultStatus `json:"status"`
}

type CreateTestResultRequest struct {
	AppointmentID int64  `json:"appointmentId" validate:"required,gt=0"`
	PatientID     int64  `json:"patientId" validate:"required,gt=0"`
	TestType      string `json:"testType" validate:"required"`
	TestDate      string `json:"testDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes         string `json:"notes,omitempty" validate:"max=1000"`
}

type UpdateTestResultRequest struct {
	Result   *string           `json:"result,omitempty"`
	Notes    *string           `json:"notes,omitempty" validate:"omitempty,max=1000"`
	FileName *string           `json:"fileName,omitempty"`
	Status   *TestResultStatus `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}
