package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/omnia-aid/omnia/internal/model"
)

func TestPriorityDisplay(t *testing.T) {
	assert.Equal(t, Display{Label: "Haute", Icon: "fas fa-exclamation-triangle", Class: "priority-high"}, PriorityDisplay(model.PriorityHigh))
	assert.Equal(t, "Moyenne", PriorityDisplay(model.PriorityMedium).Label)
	assert.Equal(t, "priority-low", PriorityDisplay(model.PriorityLow).Class)

	unknown := PriorityDisplay("URGENT")
	assert.Equal(t, "URGENT", unknown.Label)
	assert.Equal(t, "fas fa-circle", unknown.Icon)
	assert.Empty(t, unknown.Class)
}

func TestFamilyStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	created := now.AddDate(-2, 0, 0)
	ago := func(months int) *time.Time {
		t := now.Add(-time.Duration(months) * statusMonth)
		return &t
	}

	tests := []struct {
		name    string
		updated *time.Time
		want    string
		class   string
	}{
		{"two months", ago(2), StatusActive, "status-active"},
		{"four months", ago(4), StatusToVerify, "status-warning"},
		{"seven months", ago(7), StatusInactive, "status-inactive"},
		{"exactly three months", ago(3), StatusToVerify, "status-warning"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FamilyStatus(&model.Family{CreatedAt: &created, UpdatedAt: tt.updated}, now)
			assert.Equal(t, tt.want, got.Text)
			assert.Equal(t, tt.class, got.Class)
		})
	}

	t.Run("falls back to createdAt", func(t *testing.T) {
		got := FamilyStatus(&model.Family{CreatedAt: ago(1)}, now)
		assert.Equal(t, StatusActive, got.Text)
	})
	t.Run("no createdAt", func(t *testing.T) {
		got := FamilyStatus(&model.Family{UpdatedAt: ago(1)}, now)
		assert.Equal(t, StatusInactive, got.Text)
	})
	t.Run("nil family", func(t *testing.T) {
		assert.Equal(t, StatusInactive, FamilyStatus(nil, now).Text)
	})
}

func TestUserStatus(t *testing.T) {
	st, toggle := UserStatus(&model.User{Active: true})
	assert.Equal(t, Status{Text: "Actif", Class: "status-active"}, st)
	assert.Equal(t, "Désactiver", toggle)

	st, toggle = UserStatus(&model.User{})
	assert.Equal(t, "Inactif", st.Text)
	assert.Equal(t, "Activer", toggle)

	st, _ = UserStatus(nil)
	assert.Equal(t, "status-unknown", st.Class)
}

func TestRoleBadge(t *testing.T) {
	assert.Equal(t, "bg-danger", RoleBadge(model.RoleAdmin).Class)
	assert.Equal(t, "bg-warning text-dark", RoleBadge(model.RoleManager).Class)
	assert.Equal(t, "bg-success", RoleBadge(model.RoleVolunteer).Class)
	assert.Equal(t, "bg-secondary", RoleBadge("Guest").Class)
	assert.Equal(t, "Guest", RoleBadge("Guest").Label)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "JD", Initials(&model.User{FirstName: "john", LastName: "Doe"}))
	assert.Equal(t, "ÉM", Initials(&model.User{FirstName: "élodie", LastName: "martin"}))
	assert.Equal(t, "J", Initials(&model.User{FirstName: "Jane"}))
	assert.Equal(t, "??", Initials(&model.User{}))
	assert.Equal(t, "??", Initials(nil))
}

func TestLocation(t *testing.T) {
	f := &model.Family{Latitude: ptr(36.8065), Longitude: ptr(10.1815)}
	assert.Equal(t, "Localisation: 36.8065, 10.1815", LocationTooltip(f))
	assert.Equal(t, "https://www.google.com/maps?q=36.8065,10.1815", MapsURL(f))

	half := &model.Family{Latitude: ptr(36.8)}
	assert.Equal(t, "Localisation non définie", LocationTooltip(half))
	assert.Empty(t, MapsURL(half))
	assert.Empty(t, MapsURL(nil))
}
