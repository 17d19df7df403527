package user

import (
	"context"

	"github.com/jwalitptl/smarthealth/internal/client"
	"github.com/jwalitptl/smarthealth/internal/model"
	"github.com/jwalitptl/smarthealth/internal/service/resource"
	"github.com/jwalitptl/smarthealth/pkg/listing"
	"github.com/jwalitptl/smarthealth/pkg/validator"
)

// Collections backed by this service. Patients and staff are role-scoped
// views the server keeps over users.
const (
	UsersPath    = "/users"
	PatientsPath = "/patients"
	StaffPath    = "/staff"
)

var Schema = listing.Schema{
	SearchFields: []string{"fullName", "email", "phone"},
	Filters: map[string]listing.Op{
		"role":   listing.OpEqual,
		"status": listing.OpEqual,
		"gender": listing.OpEqual,
	},
}

var DefaultSort = listing.Sort{Field: "fullName", Direction: listing.Asc}

func DefaultFilters() map[string]string {
	return map[string]string{"role": listing.All, "status": listing.All}
}

type Service struct {
	*resource.Service[model.User, model.CreateUserRequest, model.UpdateUserRequest]
}

// NewService binds the account calls to one of the user collections
func NewService(c *client.Client, v validator.Validator, path string) *Service {
	return &Service{
		Service: resource.NewService[model.User, model.CreateUserRequest, model.UpdateUserRequest](c, path, Schema, v),
	}
}

func NewUsers(c *client.Client, v validator.Validator) *Service    { return NewService(c, v, UsersPath) }
func NewPatients(c *client.Client, v validator.Validator) *Service { return NewService(c, v, PatientsPath) }
func NewStaff(c *client.Client, v validator.Validator) *Service    { return NewService(c, v, StaffPath) }

// SetStatus activates, deactivates or blocks an account
func (s *Service) SetStatus(ctx context.Context, id int64, status string) (model.User, error) {
	return s.Update(ctx, id, model.UpdateUserRequest{Status: &status})
}
