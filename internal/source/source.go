// Package source is the console's data access. A Source is either remote
// (the REST API through apiclient) or fixture (in-memory demonstration
// records); the console never knows which one it holds.
package source

import (
	"context"

	"github.com/omnia-aid/omnia/internal/model"
)

const (
	NameRemote  = "remote"
	NameFixture = "fixture"
)

type Families interface {
	List(ctx context.Context) ([]model.Family, error)
	Get(ctx context.Context, id string) (*model.Family, error)
	Create(ctx context.Context, req model.FamilyCreateRequest) (*model.Family, error)
	Update(ctx context.Context, id string, req model.FamilyUpdateRequest) (*model.Family, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]model.Family, error)
	ByPriority(ctx context.Context, level model.PriorityLevel) ([]model.Family, error)
	Count(ctx context.Context) (int, error)
}

type Users interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) (*model.User, error)
	Deactivate(ctx context.Context, id string) (*model.User, error)
	ByRole(ctx context.Context, role model.Role) ([]model.User, error)
	Active(ctx context.Context) ([]model.User, error)
}

type Accounts interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
}

type AidTypes interface {
	List(ctx context.Context) ([]model.AidType, error)
	Active(ctx context.Context) ([]model.AidType, error)
}

// Source groups the data access the console pages need.
type Source struct {
	Name     string
	Families Families
	Users    Users
	Accounts Accounts
	AidTypes AidTypes
}

// IsFixture reports whether s serves demonstration data.
func (s *Source) IsFixture() bool {
	return s.Name == NameFixture
}
