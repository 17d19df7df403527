package appointment

import (
	"context"

	"github.com/jwalitptl/smarthealth/internal/client"
	"github.com/jwalitptl/smarthealth/internal/model"
	"github.com/jwalitptl/smarthealth/internal/service/resource"
	"github.com/jwalitptl/smarthealth/pkg/listing"
	"github.com/jwalitptl/smarthealth/pkg/validator"
)

const Path = "/appointments"

var Schema = listing.Schema{
	SearchFields: []string{"patientName", "doctorName", "reason"},
	Filters: map[string]listing.Op{
		"status":          listing.OpEqual,
		"doctorId":        listing.OpEqual,
		"patientId":       listing.OpEqual,
		"appointmentDate": listing.OpLike,
	},
}

// DefaultSort shows the most recent appointments first
var DefaultSort = listing.Sort{Field: "appointmentDate", Direction: listing.Desc}

func DefaultFilters() map[string]string {
	return map[string]string{"status": listing.All}
}

type Service struct {
	*resource.Service[model.Appointment, model.CreateAppointmentRequest, model.UpdateAppointmentRequest]
}

func NewService(c *client.Client, v validator.Validator) *Service {
	return &Service{
		Service: resource.NewService[model.Appointment, model.CreateAppointmentRequest, model.UpdateAppointmentRequest](c, Path, Schema, v),
	}
}

// UpdateStatus moves an appointment to status
func (s *Service) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (model.Appointment, error) {
	return s.Update(ctx, id, model.UpdateAppointmentRequest{Status: &status})
}
