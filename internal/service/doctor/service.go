package doctor

import (
	"github.com/jwalitptl/smarthealth/internal/client"
	"github.com/jwalitptl/smarthealth/internal/model"
	"github.com/jwalitptl/smarthealth/internal/service/resource"
	"github.com/jwalitptl/smarthealth/pkg/listing"
	"github.com/jwalitptl/smarthealth/pkg/validator"
)

const Path = "/doctors"

var Schema = listing.Schema{
	SearchFields: []string{"fullName", "email", "specialty"},
	Filters: map[string]listing.Op{
		"specialty":  listing.OpEqual,
		"department": listing.OpEqual,
		"status":     listing.OpEqual,
	},
}

var DefaultSort = listing.Sort{Field: "fullName", Direction: listing.Asc}

func DefaultFilters() map[string]string {
	return map[string]string{"specialty": listing.All, "status": listing.All}
}

type Service struct {
	*resource.Service[model.Doctor, model.CreateDoctorRequest, model.UpdateDoctorRequest]
}

func NewService(c *client.Client, v validator.Validator) *Service {
	return &Service{
		Service: resource.NewService[model.Doctor, model.CreateDoctorRequest, model.UpdateDoctorRequest](c, Path, Schema, v),
	}
}
