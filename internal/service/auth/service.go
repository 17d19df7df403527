package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jwalitptl/smarthealth/internal/client"
	"github.com/jwalitptl/smarthealth/internal/model"
	"github.com/jwalitptl/smarthealth/pkg/validator"
)

type Service struct {
	client    *client.Client
	validator validator.Validator
}

func NewService(c *client.Client, v validator.Validator) *Service {
	if v == nil {
		v = validator.New()
	}
	return &Service{client: c, validator: v}
}

func (s *Service) Login(ctx context.Context, email, password string) (model.LoginResponse, error) {
	req := model.LoginRequest{Email: email, Password: password}
	if err := s.validator.Validate(req); err != nil {
		return model.LoginResponse{}, err
	}

	var resp model.LoginResponse
	if err := s.client.Do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return model.LoginResponse{}, fmt.Errorf("failed to login: %w", err)
	}
	return resp, nil
}

// Account resolves the principal behind the current token
func (s *Service) Account(ctx context.Context) (model.User, error) {
	var u model.User
	if err := s.client.Do(ctx, http.MethodGet, "/auth/account", nil, nil, &u); err != nil {
		return model.User{}, fmt.Errorf("failed to get account: %w", err)
	}
	return u, nil
}

func (s *Service) Logout(ctx context.Context) error {
	if err := s.client.Do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// Refresh exchanges the current token for a fresh one
func (s *Service) Refresh(ctx context.Context) (model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := s.client.Do(ctx, http.MethodPost, "/auth/refresh", nil, nil, &resp); err != nil {
		return model.LoginResponse{}, fmt.Errorf("failed to refresh token: %w", err)
	}
	return resp, nil
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.User{}, err
	}

	var u model.User
	if err := s.client.Do(ctx, http.MethodPost, "/auth/register", nil, req, &u); err != nil {
		return model.User{}, fmt.Errorf("failed to register: %w", err)
	}
	return u, nil
}

func (s *Service) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	if err := s.client.Do(ctx, http.MethodPut, "/auth/password", nil, req, nil); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}
