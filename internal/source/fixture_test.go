package source

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnia-aid/omnia/internal/apiclient"
	"github.com/omnia-aid/omnia/internal/auth"
	"github.com/omnia-aid/omnia/internal/model"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestFixture(t *testing.T) (*Source, *auth.Tokens) {
	t.Helper()
	tokens := auth.NewTokens("test-secret", "omnia", time.Hour)
	return NewFixture(FixtureOptions{Tokens: tokens, Now: func() time.Time { return fixedNow }}), tokens
}

func TestFixture_Families(t *testing.T) {
	src, _ := newTestFixture(t)
	ctx := context.Background()
	assert.True(t, src.IsFixture())

	all, err := src.Families.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "FAM-2025-001", all[0].Reference)

	n, err := src.Families.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	high, err := src.Families.ByPriority(ctx, model.PriorityHigh)
	require.NoError(t, err)
	assert.Len(t, high, 2)

	found, err := src.Families.Search(ctx, "sfax")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Fatima Trabelsi", found[0].HeadOfFamily)
}

func TestFixture_FamilyGetUnknownID(t *testing.T) {
	src, _ := newTestFixture(t)

	f, err := src.Families.Get(context.Background(), "X")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "X", f.ID)
	assert.Equal(t, "Mohamed Ben Ali", f.HeadOfFamily)
	assert.True(t, f.HasLocation())
	require.NotNil(t, f.CreatedAt)
	require.NotNil(t, f.UpdatedAt)

	names := []string{}
	for _, a := range f.FrequentAidTypes {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Colis alimentaire", "Fournitures scolaires"}, names)
}

func TestFixture_ReturnsCopies(t *testing.T) {
	src, _ := newTestFixture(t)
	ctx := context.Background()

	all, err := src.Families.List(ctx)
	require.NoError(t, err)
	all[0].HeadOfFamily = "changed"
	*all[0].Latitude = 0

	again, err := src.Families.Get(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Mohamed Ben Ali", again.HeadOfFamily)
	assert.InDelta(t, 36.8065, *again.Latitude, 1e-9)
}

func TestFixture_FamilyMutations(t *testing.T) {
	src, _ := newTestFixture(t)
	ctx := context.Background()

	created, err := src.Families.Create(ctx, model.FamilyCreateRequest{
		Reference:          "FAM-202503-042",
		HeadOfFamily:       "Nour Saidi",
		Phone:              "99887766",
		Address:            "3 Rue de Marseille, Tunis",
		FrequentAidTypeIDs: []string{"2"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, created.FamilySize)
	assert.Equal(t, model.PriorityMedium, created.PriorityLevel)
	require.Len(t, created.FrequentAidTypes, 1)
	assert.Equal(t, "Médicaments génériques", created.FrequentAidTypes[0].Name)
	assert.Equal(t, fixedNow, *created.CreatedAt)

	_, err = src.Families.Create(ctx, model.FamilyCreateRequest{Reference: "FAM-202503-042", HeadOfFamily: "Autre"})
	assert.Equal(t, http.StatusConflict, apiclient.StatusCode(err))

	name := "Nour Ben Saidi"
	updated, err := src.Families.Update(ctx, created.ID, model.FamilyUpdateRequest{HeadOfFamily: &name, FrequentAidTypeIDs: []string{}})
	require.NoError(t, err)
	assert.Equal(t, name, updated.HeadOfFamily)
	assert.Empty(t, updated.FrequentAidTypes)

	_, err = src.Families.Update(ctx, created.ID, model.FamilyUpdateRequest{FrequentAidTypeIDs: []string{"nope"}})
	assert.Equal(t, http.StatusBadRequest, apiclient.StatusCode(err))
	lat := 36.8
	_, err = src.Families.Update(ctx, created.ID, model.FamilyUpdateRequest{Latitude: &lat})
	assert.Equal(t, http.StatusBadRequest, apiclient.StatusCode(err))

	long := 10.1
	located, err := src.Families.Update(ctx, created.ID, model.FamilyUpdateRequest{Latitude: &lat, Longitude: &long})
	require.NoError(t, err)
	assert.True(t, located.HasLocation())
	cleared, err := src.Families.Update(ctx, created.ID, model.FamilyUpdateRequest{ClearLocation: true})
	require.NoError(t, err)
	assert.False(t, cleared.HasLocation())

	_, err = src.Families.Update(ctx, "missing", model.FamilyUpdateRequest{HeadOfFamily: &name})
	assert.Equal(t, http.StatusNotFound, apiclient.StatusCode(err))

	require.NoError(t, src.Families.Delete(ctx, created.ID))
	assert.Equal(t, http.StatusNotFound, apiclient.StatusCode(src.Families.Delete(ctx, created.ID)))

	n, err := src.Families.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestFixture_Users(t *testing.T) {
	src, _ := newTestFixture(t)
	ctx := context.Background()

	all, err := src.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "John", all[0].FirstName)

	active, err := src.Users.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	managers, err := src.Users.ByRole(ctx, model.RoleManager)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "Bob", managers[0].FirstName)

	_, err = src.Users.Get(ctx, "99")
	assert.Equal(t, http.StatusNotFound, apiclient.StatusCode(err))

	u, err := src.Users.Activate(ctx, "2")
	require.NoError(t, err)
	assert.True(t, u.Active)
	u, err = src.Users.Deactivate(ctx, "2")
	require.NoError(t, err)
	assert.False(t, u.Active)

	phone := "+21622000111"
	u, err = src.Users.Update(ctx, "3", model.UpdateUserRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, u.Phone)
	assert.Equal(t, "bob@example.com", u.Email)

	created, err := src.Users.Create(ctx, model.CreateUserRequest{FirstName: "Sami", LastName: "Haddad", Email: "sami@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleVolunteer, created.Role)
	assert.True(t, created.Active)

	_, err = src.Users.Create(ctx, model.CreateUserRequest{FirstName: "S", LastName: "H", Email: "SAMI@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusConflict, apiclient.StatusCode(err))

	require.NoError(t, src.Users.Delete(ctx, created.ID))
	assert.Equal(t, http.StatusNotFound, apiclient.StatusCode(src.Users.Delete(ctx, created.ID)))
}

func TestFixture_Accounts(t *testing.T) {
	src, tokens := newTestFixture(t)
	ctx := context.Background()

	resp, err := src.Accounts.Login(ctx, model.LoginRequest{Email: "JOHN@example.com", Password: DefaultPassword})
	require.NoError(t, err)
	assert.Equal(t, "1", resp.UserID)
	assert.Equal(t, model.RoleAdmin, resp.Role)

	ac, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "1", ac.UserID)
	assert.Equal(t, "john@example.com", ac.Email)

	u, err := src.Users.Get(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, u.LastLoginAt)

	_, err = src.Accounts.Login(ctx, model.LoginRequest{Email: "john@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, apiclient.StatusCode(err))

	_, err = src.Accounts.Login(ctx, model.LoginRequest{Email: "jane@example.com", Password: DefaultPassword})
	assert.Equal(t, http.StatusForbidden, apiclient.StatusCode(err))

	reg, err := src.Accounts.Register(ctx, model.RegisterRequest{
		FirstName: "Sami", LastName: "Haddad", Email: "sami@example.com", Password: "secret1", Role: model.RoleManager,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, model.RoleManager, reg.Role)

	_, err = src.Accounts.Login(ctx, model.LoginRequest{Email: "sami@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = src.Accounts.Register(ctx, model.RegisterRequest{FirstName: "S", LastName: "H", Email: "sami@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusConflict, apiclient.StatusCode(err))
}

func TestFixture_AidTypes(t *testing.T) {
	src, _ := newTestFixture(t)
	all, err := src.AidTypes.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "1", all[0].ID)

	active, err := src.AidTypes.Active(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 6)
}

func TestFixture_Latency(t *testing.T) {
	src := NewFixture(FixtureOptions{Latency: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := src.Families.List(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFixture_NoTokens(t *testing.T) {
	src := NewFixture(FixtureOptions{})
	resp, err := src.Accounts.Login(context.Background(), model.LoginRequest{Email: "bob@example.com", Password: DefaultPassword})
	require.NoError(t, err)
	assert.Empty(t, resp.Token)
}
