package apiclient

import (
	"context"
	"net/http"

	"github.com/omnia-aid/omnia/internal/model"
)

// UserService covers /api/users.
type UserService struct {
	c *Client
}

func (s *UserService) GetAll(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, "api", "users"), nil, &out)
	return out, err
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.one(ctx, http.MethodGet, nil, "api", "users", id)
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	return s.one(ctx, http.MethodPost, req, "api", "users")
}

func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	return s.one(ctx, http.MethodPut, req, "api", "users", id)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, s.c.endpoint(nil, "api", "users", id), nil, nil)
}

func (s *UserService) Activate(ctx context.Context, id string) (*model.User, error) {
	return s.one(ctx, http.MethodPut, nil, "api", "users", id, "activate")
}

func (s *UserService) Deactivate(ctx context.Context, id string) (*model.User, error) {
	return s.one(ctx, http.MethodPut, nil, "api", "users", id, "deactivate")
}

func (s *UserService) ByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var out []model.User
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, "api", "users", "role", string(role)), nil, &out)
	return out, err
}

func (s *UserService) Active(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, "api", "users", "active"), nil, &out)
	return out, err
}

func (s *UserService) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	var out model.AuthResponse
	req := model.LoginRequest{Email: email, Password: password}
	if err := s.c.do(ctx, http.MethodPost, s.c.endpoint(nil, "api", "users", "login"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) one(ctx context.Context, method string, body any, segments ...string) (*model.User, error) {
	var out model.User
	if err := s.c.do(ctx, method, s.c.endpoint(nil, segments...), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
