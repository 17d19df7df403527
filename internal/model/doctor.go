package model

type Doctor struct {
	Base
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Specialty       string `json:"specialty"`
	Department      string `json:"department,omitempty"`
	Qualification   string `json:"qualification,omitempty"`
	ExperienceYears int    `json:"experienceYears,omitempty"`
	Status          string `json:"status"`
}

type CreateDoctorRequest struct {
	FullName        string `json:"fullName" validate:"required,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Specialty       string `json:"specialty" validate:"required"`
	Department      string `json:"department,omitempty"`
	Qualification   string `json:"qualification,omitempty"`
	ExperienceYears int    `json:"experienceYears,omitempty" validate:"gte=0,max=70"`
}

type UpdateDoctorRequest struct {
	FullName        *string `json:"fullName,omitempty" validate:"omitempty,max=120"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Specialty       *string `json:"specialty,omitempty"`
	Department      *string `json:"department,omitempty"`
	Qualification   *string `json:"qualification,omitempty"`
	ExperienceYears *int    `json:"experienceYears,omitempty" validate:"omitempty,gte=0,max=70"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}
