package apiclient

import (
	"context"
	"net/http"

	"github.com/omnia-aid/omnia/internal/model"
)

// AuthService covers /api/auth.
type AuthService struct {
	c *Client
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := s.c.do(ctx, http.MethodPost, s.c.endpoint(nil, "api", "auth", "register"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := s.c.do(ctx, http.MethodPost, s.c.endpoint(nil, "api", "auth", "login"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AidTypeService covers the read side of /api/aid-types.
type AidTypeService struct {
	c *Client
}

func (s *AidTypeService) GetAll(ctx context.Context) ([]model.AidType, error) {
	var out []model.AidType
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, "api", "aid-types"), nil, &out)
	return out, err
}

func (s *AidTypeService) Active(ctx context.Context) ([]model.AidType, error) {
	var out []model.AidType
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, "api", "aid-types", "active"), nil, &out)
	return out, err
}
