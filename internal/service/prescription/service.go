package prescription

import (
	"github.com/jwalitptl/smarthealth/internal/client"
	"github.com/jwalitptl/smarthealth/internal/model"
	"github.com/jwalitptl/smarthealth/internal/service/resource"
	"github.com/jwalitptl/smarthealth/pkg/listing"
	"github.com/jwalitptl/smarthealth/pkg/validator"
)

const Path = "/prescriptions"

var Schema = listing.Schema{
	SearchFields: []string{"patientName", "doctorName", "medications.medicineName"},
	Filters: map[string]listing.Op{
		"status":        listing.OpEqual,
		"patientId":     listing.OpEqual,
		"appointmentId": listing.OpEqual,
	},
}

var DefaultSort = listing.Sort{Field: "issuedDate", Direction: listing.Desc}

func DefaultFilters() map[string]string {
	return map[string]string{"status": listing.All}
}

type Service struct {
	*resource.Service[model.Prescription, model.CreatePrescriptionRequest, model.UpdatePrescriptionRequest]
}

func NewService(c *client.Client, v validator.Validator) *Service {
	return &Service{
		Service: resource.NewService[model.Prescription, model.CreatePrescriptionRequest, model.UpdatePrescriptionRequest](c, Path, Schema, v),
	}
}
