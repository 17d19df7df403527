package model

// Roles
const (
	RoleAdmin   = "ADMIN"
	RoleDoctor  = "DOCTOR"
	RoleStaff   = "STAFF"
	RolePatient = "PATIENT"
)

// Account status
const (
	UserStatusActive   = "ACTIVE"
	UserStatusInactive = "INACTIVE"
	UserStatusBlocked  = "BLOCKED"
)

// User is an account as seen by the admin screens. Patients and staff are
// users with the matching role.
type User struct {
	Base
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Address     string `json:"address,omitempty"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

type CreateUserRequest struct {
	FullName    string `json:"fullName" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Gender      string `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	DateOfBirth string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Address     string `json:"address,omitempty"`
	Role        string `json:"role" validate:"required,oneof=ADMIN DOCTOR STAFF PATIENT"`
	Password    string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	FullName    *string `json:"fullName,omitempty" validate:"omitempty,max=120"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Gender      *string `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	DateOfBirth *string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Address     *string `json:"address,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE BLOCKED"`
}
