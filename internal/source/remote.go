package source

import (
	"context"

	"github.com/omnia-aid/omnia/internal/apiclient"
	"github.com/omnia-aid/omnia/internal/model"
)

// NewRemote serves the console from the REST API. Errors are the client's
// *apiclient.Error, returned unchanged.
func NewRemote(c *apiclient.Client) *Source {
	return &Source{
		Name:     NameRemote,
		Families: remoteFamilies{c.Families()},
		Users:    remoteUsers{c.Users()},
		Accounts: remoteAccounts{c.Auth()},
		AidTypes: remoteAidTypes{c.AidTypes()},
	}
}

type remoteFamilies struct{ s *apiclient.FamilyService }

func (r remoteFamilies) List(ctx context.Context) ([]model.Family, error) {
	return r.s.GetAll(ctx)
}

func (r remoteFamilies) Get(ctx context.Context, id string) (*model.Family, error) {
	return r.s.GetByID(ctx, id)
}

func (r remoteFamilies) Create(ctx context.Context, req model.FamilyCreateRequest) (*model.Family, error) {
	return r.s.Create(ctx, req)
}

func (r remoteFamilies) Update(ctx context.Context, id string, req model.FamilyUpdateRequest) (*model.Family, error) {
	return r.s.Update(ctx, id, req)
}

func (r remoteFamilies) Delete(ctx context.Context, id string) error {
	return r.s.Delete(ctx, id)
}

func (r remoteFamilies) Search(ctx context.Context, query string) ([]model.Family, error) {
	return r.s.Search(ctx, query)
}

func (r remoteFamilies) ByPriority(ctx context.Context, level model.PriorityLevel) ([]model.Family, error) {
	return r.s.ByPriority(ctx, level)
}

func (r remoteFamilies) Count(ctx context.Context) (int, error) {
	return r.s.Count(ctx)
}

type remoteUsers struct{ s *apiclient.UserService }

func (r remoteUsers) List(ctx context.Context) ([]model.User, error) {
	return r.s.GetAll(ctx)
}

func (r remoteUsers) Get(ctx context.Context, id string) (*model.User, error) {
	return r.s.GetByID(ctx, id)
}

func (r remoteUsers) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	return r.s.Create(ctx, req)
}

func (r remoteUsers) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	return r.s.Update(ctx, id, req)
}

func (r remoteUsers) Delete(ctx context.Context, id string) error {
	return r.s.Delete(ctx, id)
}

func (r remoteUsers) Activate(ctx context.Context, id string) (*model.User, error) {
	return r.s.Activate(ctx, id)
}

func (r remoteUsers) Deactivate(ctx context.Context, id string) (*model.User, error) {
	return r.s.Deactivate(ctx, id)
}

func (r remoteUsers) ByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	return r.s.ByRole(ctx, role)
}

func (r remoteUsers) Active(ctx context.Context) ([]model.User, error) {
	return r.s.Active(ctx)
}

type remoteAccounts struct{ s *apiclient.AuthService }

func (r remoteAccounts) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	return r.s.Login(ctx, req)
}

func (r remoteAccounts) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	return r.s.Register(ctx, req)
}

type remoteAidTypes struct{ s *apiclient.AidTypeService }

func (r remoteAidTypes) List(ctx context.Context) ([]model.AidType, error) {
	return r.s.GetAll(ctx)
}

func (r remoteAidTypes) Active(ctx context.Context) ([]model.AidType, error) {
	return r.s.Active(ctx)
}
