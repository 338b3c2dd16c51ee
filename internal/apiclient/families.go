package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/omnia-aid/omnia/internal/model"
)

// FamilyService covers /api/families.
type FamilyService struct {
	c *Client
}

func (s *FamilyService) GetAll(ctx context.Context) ([]model.Family, error) {
	var out []model.Family
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, "api", "families"), nil, &out)
	return out, err
}

func (s *FamilyService) GetByID(ctx context.Context, id string) (*model.Family, error) {
	var out model.Family
	if err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, "api", "families", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *FamilyService) Create(ctx context.Context, req model.FamilyCreateRequest) (*model.Family, error) {
	var out model.Family
	if err := s.c.do(ctx, http.MethodPost, s.c.endpoint(nil, "api", "families"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *FamilyService) Update(ctx context.Context, id string, req model.FamilyUpdateRequest) (*model.Family, error) {
	var out model.Family
	if err := s.c.do(ctx, http.MethodPut, s.c.endpoint(nil, "api", "families", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *FamilyService) Delete(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, s.c.endpoint(nil, "api", "families", id), nil, nil)
}

func (s *FamilyService) Search(ctx context.Context, query string) ([]model.Family, error) {
	var out []model.Family
	q := url.Values{"query": {query}}
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(q, "api", "families", "search"), nil, &out)
	return out, err
}

func (s *FamilyService) ByPriority(ctx context.Context, level model.PriorityLevel) ([]model.Family, error) {
	var out []model.Family
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, "api", "families", "priority", string(level)), nil, &out)
	return out, err
}

func (s *FamilyService) Count(ctx context.Context) (int, error) {
	var n int
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, "api", "families", "count"), nil, &n)
	return n, err
}
