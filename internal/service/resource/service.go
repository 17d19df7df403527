// Package resource provides the CRUD calls every SmartHealth collection shares.
package resource

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jwalitptl/smarthealth/internal/client"
	"github.com/jwalitptl/smarthealth/pkg/listing"
	"github.com/jwalitptl/smarthealth/pkg/validator"
)

// Service is a thin wrapper over one REST collection. T is the record type,
// C the create payload and U the update payload.
type Service[T any, C any, U any] struct {
	client    *client.Client
	path      string
	schema    listing.Schema
	validator validator.Validator
}

func NewService[T any, C any, U any](c *client.Client, path string, schema listing.Schema, v validator.Validator) *Service[T, C, U] {
	if v == nil {
		v = validator.New()
	}
	return &Service[T, C, U]{
		client:    c,
		path:      "/" + strings.Trim(path, "/"),
		schema:    schema,
		validator: v,
	}
}

func (s *Service[T, C, U]) Path() string           { return s.path }
func (s *Service[T, C, U]) Schema() listing.Schema { return s.schema }

func (s *Service[T, C, U]) item(id int64) string {
	return s.path + "/" + strconv.FormatInt(id, 10)
}

// List fetches one page for q using the collection schema
func (s *Service[T, C, U]) List(ctx context.Context, q listing.Query) (listing.Page[T], error) {
	return client.GetPage[T](ctx, s.client, s.path, listing.BuildParams(q, s.schema))
}

// Fetch adapts List for a listing.Controller
func (s *Service[T, C, U]) Fetch() listing.FetchFunc[T] {
	return s.List
}

func (s *Service[T, C, U]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	if err := s.client.Do(ctx, http.MethodGet, s.item(id), nil, nil, &out); err != nil {
		return out, fmt.Errorf("failed to get %s %d: %w", s.name(), id, err)
	}
	return out, nil
}

func (s *Service[T, C, U]) Create(ctx context.Context, req C) (T, error) {
	var out T
	if err := s.validator.Validate(req); err != nil {
		return out, err
	}
	if err := s.client.Do(ctx, http.MethodPost, s.path, nil, req, &out); err != nil {
		return out, fmt.Errorf("failed to create %s: %w", s.name(), err)
	}
	return out, nil
}

// Update sends a full or partial replacement; unset pointer fields in req are omitted
func (s *Service[T, C, U]) Update(ctx context.Context, id int64, req U) (T, error) {
	var out T
	if err := s.validator.Validate(req); err != nil {
		return out, err
	}
	if err := s.client.Do(ctx, http.MethodPut, s.item(id), nil, req, &out); err != nil {
		return out, fmt.Errorf("failed to update %s %d: %w", s.name(), id, err)
	}
	return out, nil
}

func (s *Service[T, C, U]) Delete(ctx context.Context, id int64) error {
	if err := s.client.Do(ctx, http.MethodDelete, s.item(id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", s.name(), id, err)
	}
	return nil
}

func (s *Service[T, C, U]) name() string {
	return strings.TrimPrefix(s.path, "/")
}
