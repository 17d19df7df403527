package testresult

import (
	"context"
	"fmt"

	"github.com/jwalitptl/smarthealth/internal/client"
	"github.com/jwalitptl/smarthealth/internal/model"
	"github.com/jwalitptl/smarthealth/internal/service/resource"
	apperrors "github.com/jwalitptl/smarthealth/pkg/errors"
	"github.com/jwalitptl/smarthealth/pkg/listing"
	"github.com/jwalitptl/smarthealth/pkg/validator"
)

const Path = "/test-results"

var Schema = listing.Schema{
	SearchFields: []string{"patientName", "testType"},
	Filters: map[string]listing.Op{
		"status":        listing.OpEqual,
		"testType":      listing.OpEqual,
		"appointmentId": listing.OpEqual,
	},
}

var DefaultSort = listing.Sort{Field: "id", Direction: listing.Desc}

func DefaultFilters() map[string]string {
	return map[string]string{"status": listing.All}
}

type Service struct {
	*resource.Service[model.TestResult, model.CreateTestResultRequest, model.UpdateTestResultRequest]
}

func NewService(c *client.Client, v validator.Validator) *Service {
	return &Service{
		Service: resource.NewService[model.TestResult, model.CreateTestResultRequest, model.UpdateTestResultRequest](c, Path, Schema, v),
	}
}

// Advance moves a lab test one step along the queue from its current status
func (s *Service) Advance(ctx context.Context, id int64, from model.TestResultStatus) (model.TestResult, error) {
	next, ok := model.NextTestResultStatus(from)
	if !ok {
		return model.TestResult{}, apperrors.Precondition(fmt.Sprintf("Test result #%d is already %s", id, model.BadgeFor(string(from)).Label))
	}
	return s.Update(ctx, id, model.UpdateTestResultRequest{Status: &next})
}

// AttachFile links an uploaded report to the test result
func (s *Service) AttachFile(ctx context.Context, id int64, fileName string) (model.TestResult, error) {
	if fileName == "" {
		return model.TestResult{}, apperrors.Precondition("File name is required")
	}
	return s.Update(ctx, id, model.UpdateTestResultRequest{FileName: &fileName})
}
