package source

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/omnia-aid/omnia/internal/apiclient"
	"github.com/omnia-aid/omnia/internal/auth"
	"github.com/omnia-aid/omnia/internal/console"
	"github.com/omnia-aid/omnia/internal/model"
)

type FixtureOptions struct {
	// Latency delays every call, giving up early if the context ends.
	Latency time.Duration
	// Tokens signs the session token returned by Login and Register. When
	// nil the token is left empty.
	Tokens *auth.Tokens
	Now    func() time.Time
}

// fixture holds the demonstration records. Every read returns copies, so
// callers never share state with it or with each other.
type fixture struct {
	mu        sync.Mutex
	families  []model.Family
	users     []model.User
	passwords map[string][]byte
	aidTypes  []model.AidType

	latency time.Duration
	tokens  *auth.Tokens
	now     func() time.Time
}

// NewFixture builds a source over the seeded demonstration records.
func NewFixture(opts FixtureOptions) *Source {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	f := &fixture{
		families:  seedFamilies(),
		users:     seedUsers(now()),
		passwords: make(map[string][]byte),
		aidTypes:  seedAidTypes(),
		latency:   opts.Latency,
		tokens:    opts.Tokens,
		now:       now,
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err == nil {
		for _, u := range f.users {
			f.passwords[u.ID] = hash
		}
	}
	return &Source{
		Name:     NameFixture,
		Families: fixtureFamilies{f},
		Users:    fixtureUsers{f},
		Accounts: fixtureAccounts{f},
		AidTypes: fixtureAidTypes{f},
	}
}

func (f *fixture) wait(ctx context.Context) error {
	if f.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(f.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (f *fixture) stamp() *time.Time {
	t := f.now().UTC().Truncate(time.Second)
	return &t
}

func notFound(msg string) error {
	return &apiclient.Error{StatusCode: http.StatusNotFound, Message: msg}
}

func conflict(msg string) error {
	return &apiclient.Error{StatusCode: http.StatusConflict, Message: msg}
}

func badRequest(msg string) error {
	return &apiclient.Error{StatusCode: http.StatusBadRequest, Message: msg}
}

// checkFamilyRequest mirrors the API's coordinate and aid type checks.
func (f *fixture) checkFamilyRequest(lat, long *float64, aidTypeIDs []string) error {
	if (lat == nil) != (long == nil) {
		return badRequest("latitude and longitude must be sent together")
	}
	for _, id := range aidTypeIDs {
		if !slices.ContainsFunc(f.aidTypes, func(a model.AidType) bool { return a.ID == id }) {
			return badRequest("unknown aid type: " + id)
		}
	}
	return nil
}

func cloneFamily(f model.Family) model.Family {
	if f.Latitude != nil {
		lat := *f.Latitude
		f.Latitude = &lat
	}
	if f.Longitude != nil {
		long := *f.Longitude
		f.Longitude = &long
	}
	if f.CreatedAt != nil {
		t := *f.CreatedAt
		f.CreatedAt = &t
	}
	if f.UpdatedAt != nil {
		t := *f.UpdatedAt
		f.UpdatedAt = &t
	}
	f.FrequentAidTypes = slices.Clone(f.FrequentAidTypes)
	return f
}

func cloneFamilies(in []model.Family) []model.Family {
	out := make([]model.Family, 0, len(in))
	for _, f := range in {
		out = append(out, cloneFamily(f))
	}
	return out
}

func cloneUser(u model.User) model.User {
	if u.CreatedAt != nil {
		t := *u.CreatedAt
		u.CreatedAt = &t
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		u.LastLoginAt = &t
	}
	return u
}

func cloneUsers(in []model.User) []model.User {
	out := make([]model.User, 0, len(in))
	for _, u := range in {
		out = append(out, cloneUser(u))
	}
	return out
}

func (f *fixture) familyIndex(id string) int {
	return slices.IndexFunc(f.families, func(fam model.Family) bool { return fam.ID == id })
}

func (f *fixture) userIndex(id string) int {
	return slices.IndexFunc(f.users, func(u model.User) bool { return u.ID == id })
}

func (f *fixture) lookupAidTypes(ids []string) []model.AidType {
	var out []model.AidType
	for _, id := range ids {
		for _, a := range f.aidTypes {
			if a.ID == id {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

type fixtureFamilies struct{ f *fixture }

func (s fixtureFamilies) List(ctx context.Context) ([]model.Family, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return cloneFamilies(s.f.families), nil
}

// Get returns the stored family, or the detail record carrying id when the
// fixture does not hold it.
func (s fixtureFamilies) Get(ctx context.Context, id string) (*model.Family, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	if i := s.f.familyIndex(id); i >= 0 {
		fam := cloneFamily(s.f.families[i])
		return &fam, nil
	}
	return detailFamily(id, s.f.aidTypes), nil
}

func (s fixtureFamilies) Create(ctx context.Context, req model.FamilyCreateRequest) (*model.Family, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()

	if err := s.f.checkFamilyRequest(req.Latitude, req.Longitude, req.FrequentAidTypeIDs); err != nil {
		return nil, err
	}
	if req.Reference == "" {
		req.Reference = model.GenerateReference(s.f.now(), len(s.f.families)+1)
	}
	for _, existing := range s.f.families {
		if existing.Reference == req.Reference {
			return nil, conflict("a family with that reference already exists")
		}
	}
	if req.FamilySize == 0 {
		req.FamilySize = 1
	}
	if req.PriorityLevel == "" {
		req.PriorityLevel = model.PriorityMedium
	}
	now := s.f.stamp()
	fam := model.Family{
		ID:               uuid.NewString(),
		Reference:        req.Reference,
		HeadOfFamily:     req.HeadOfFamily,
		Phone:            req.Phone,
		Address:          req.Address,
		FamilySize:       req.FamilySize,
		NeedsDescription: req.NeedsDescription,
		PriorityLevel:    req.PriorityLevel,
		Notes:            req.Notes,
		FrequentAidTypes: s.f.lookupAidTypes(req.FrequentAidTypeIDs),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Latitude != nil && req.Longitude != nil {
		fam.Latitude, fam.Longitude = coord(*req.Latitude), coord(*req.Longitude)
	}
	s.f.families = append(s.f.families, fam)
	out := cloneFamily(fam)
	return &out, nil
}

func (s fixtureFamilies) Update(ctx context.Context, id string, req model.FamilyUpdateRequest) (*model.Family, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()

	i := s.f.familyIndex(id)
	if i < 0 {
		return nil, notFound("family not found")
	}
	if err := s.f.checkFamilyRequest(req.Latitude, req.Longitude, req.FrequentAidTypeIDs); err != nil {
		return nil, err
	}
	fam := cloneFamily(s.f.families[i])
	req.Apply(&fam)
	if req.FrequentAidTypeIDs != nil {
		fam.FrequentAidTypes = s.f.lookupAidTypes(req.FrequentAidTypeIDs)
	}
	fam.UpdatedAt = s.f.stamp()
	s.f.families[i] = fam
	out := cloneFamily(fam)
	return &out, nil
}

func (s fixtureFamilies) Delete(ctx context.Context, id string) error {
	if err := s.f.wait(ctx); err != nil {
		return err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	i := s.f.familyIndex(id)
	if i < 0 {
		return notFound("family not found")
	}
	s.f.families = slices.Delete(s.f.families, i, i+1)
	return nil
}

func (s fixtureFamilies) Search(ctx context.Context, query string) ([]model.Family, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return cloneFamilies(console.FilterFamilies(s.f.families, console.FamilyFilter{Term: query})), nil
}

func (s fixtureFamilies) ByPriority(ctx context.Context, level model.PriorityLevel) ([]model.Family, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return cloneFamilies(console.FilterFamilies(s.f.families, console.FamilyFilter{Priority: string(level)})), nil
}

func (s fixtureFamilies) Count(ctx context.Context) (int, error) {
	if err := s.f.wait(ctx); err != nil {
		return 0, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return len(s.f.families), nil
}

type fixtureUsers struct{ f *fixture }

func (s fixtureUsers) List(ctx context.Context) ([]model.User, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return cloneUsers(s.f.users), nil
}

func (s fixtureUsers) Get(ctx context.Context, id string) (*model.User, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	i := s.f.userIndex(id)
	if i < 0 {
		return nil, notFound("user not found")
	}
	u := cloneUser(s.f.users[i])
	return &u, nil
}

func (s fixtureUsers) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return s.f.createUser(req)
}

// createUser expects f.mu to be held.
func (f *fixture) createUser(req model.CreateUserRequest) (*model.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, req.Email) {
			return nil, conflict("an account with that email already exists")
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return nil, &apiclient.Error{StatusCode: http.StatusBadRequest, Message: "failed to hash password", Err: err}
	}
	role := req.Role
	if role == "" {
		role = model.RoleVolunteer
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	u := model.User{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      role,
		Active:    active,
		CreatedAt: f.stamp(),
	}
	f.users = append(f.users, u)
	f.passwords[u.ID] = hash
	out := cloneUser(u)
	return &out, nil
}

func (s fixtureUsers) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	i := s.f.userIndex(id)
	if i < 0 {
		return nil, notFound("user not found")
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.MinCost)
		if err != nil {
			return nil, &apiclient.Error{StatusCode: http.StatusBadRequest, Message: "failed to hash password", Err: err}
		}
		s.f.passwords[id] = hash
	}
	req.Apply(&s.f.users[i])
	u := cloneUser(s.f.users[i])
	return &u, nil
}

func (s fixtureUsers) Delete(ctx context.Context, id string) error {
	if err := s.f.wait(ctx); err != nil {
		return err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	i := s.f.userIndex(id)
	if i < 0 {
		return notFound("user not found")
	}
	s.f.users = slices.Delete(s.f.users, i, i+1)
	delete(s.f.passwords, id)
	return nil
}

func (s fixtureUsers) setActive(ctx context.Context, id string, active bool) (*model.User, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	i := s.f.userIndex(id)
	if i < 0 {
		return nil, notFound("user not found")
	}
	s.f.users[i].Active = active
	u := cloneUser(s.f.users[i])
	return &u, nil
}

func (s fixtureUsers) Activate(ctx context.Context, id string) (*model.User, error) {
	return s.setActive(ctx, id, true)
}

func (s fixtureUsers) Deactivate(ctx context.Context, id string) (*model.User, error) {
	return s.setActive(ctx, id, false)
}

func (s fixtureUsers) ByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return cloneUsers(console.FilterUsers(s.f.users, console.UserFilter{Role: string(role)})), nil
}

func (s fixtureUsers) Active(ctx context.Context) ([]model.User, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return cloneUsers(console.FilterUsers(s.f.users, console.UserFilter{ActiveOnly: true})), nil
}

type fixtureAccounts struct{ f *fixture }

func (s fixtureAccounts) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()

	i := slices.IndexFunc(s.f.users, func(u model.User) bool { return strings.EqualFold(u.Email, strings.TrimSpace(req.Email)) })
	if i < 0 || bcrypt.CompareHashAndPassword(s.f.passwords[s.f.users[i].ID], []byte(req.Password)) != nil {
		return nil, &apiclient.Error{StatusCode: http.StatusUnauthorized, Message: "invalid email or password"}
	}
	u := &s.f.users[i]
	if !u.Active {
		return nil, &apiclient.Error{StatusCode: http.StatusForbidden, Message: "account is deactivated"}
	}
	u.LastLoginAt = s.f.stamp()
	return s.f.authResponse(u)
}

func (s fixtureAccounts) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()

	u, err := s.f.createUser(model.CreateUserRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		return nil, err
	}
	return s.f.authResponse(u)
}

func (f *fixture) authResponse(u *model.User) (*model.AuthResponse, error) {
	resp := &model.AuthResponse{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
	if f.tokens != nil {
		token, err := f.tokens.Issue(u.ID, u.Email, string(u.Role))
		if err != nil {
			return nil, err
		}
		resp.Token = token
	}
	return resp, nil
}

type fixtureAidTypes struct{ f *fixture }

func (s fixtureAidTypes) List(ctx context.Context) ([]model.AidType, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return slices.Clone(s.f.aidTypes), nil
}

func (s fixtureAidTypes) Active(ctx context.Context) ([]model.AidType, error) {
	if err := s.f.wait(ctx); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	var out []model.AidType
	for _, a := range s.f.aidTypes {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}
