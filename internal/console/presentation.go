package console

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/omnia-aid/omnia/internal/model"
)

// Display is a label with the icon and CSS class that accompany it.
type Display struct {
	Label string
	Icon  string
	Class string
}

// PriorityDisplay is the single mapping from priority level to its
// on-screen form. Unknown levels keep their raw value as the label.
func PriorityDisplay(p model.PriorityLevel) Display {
	switch p {
	case model.PriorityHigh:
		return Display{Label: "Haute", Icon: "fas fa-exclamation-triangle", Class: "priority-high"}
	case model.PriorityMedium:
		return Display{Label: "Moyenne", Icon: "fas fa-exclamation-circle", Class: "priority-medium"}
	case model.PriorityLow:
		return Display{Label: "Basse", Icon: "fas fa-info-circle", Class: "priority-low"}
	default:
		return Display{Label: string(p), Icon: "fas fa-circle"}
	}
}

const (
	StatusActive   = "Active"
	StatusToVerify = "À vérifier"
	StatusInactive = "Inactive"
)

type Status struct {
	Text  string
	Class string
}

// statusMonth is the month length used by the recency heuristic.
const statusMonth = 30 * 24 * time.Hour

// FamilyStatus derives a display status from the last update (or creation)
// of f. It is never persisted.
func FamilyStatus(f *model.Family, now time.Time) Status {
	if f == nil || f.CreatedAt == nil {
		return Status{Text: StatusInactive, Class: "status-inactive"}
	}
	last := *f.CreatedAt
	if f.UpdatedAt != nil {
		last = *f.UpdatedAt
	}
	months := float64(now.Sub(last)) / float64(statusMonth)
	switch {
	case months < 3:
		return Status{Text: StatusActive, Class: "status-active"}
	case months < 6:
		return Status{Text: StatusToVerify, Class: "status-warning"}
	default:
		return Status{Text: StatusInactive, Class: "status-inactive"}
	}
}

// UserStatus maps the active flag to its badge and the label of the
// button that flips it.
func UserStatus(u *model.User) (Status, string) {
	if u == nil {
		return Status{Text: "Inconnu", Class: "status-unknown"}, "Changer le statut"
	}
	if u.Active {
		return Status{Text: "Actif", Class: "status-active"}, "Désactiver"
	}
	return Status{Text: "Inactif", Class: "status-inactive"}, "Activer"
}

func RoleBadge(r model.Role) Display {
	switch r {
	case model.RoleAdmin:
		return Display{Label: "Administrateur", Icon: "fas fa-user-shield", Class: "bg-danger"}
	case model.RoleManager:
		return Display{Label: "Gestionnaire", Icon: "fas fa-user-tie", Class: "bg-warning text-dark"}
	case model.RoleVolunteer:
		return Display{Label: "Bénévole", Icon: "fas fa-hands-helping", Class: "bg-success"}
	default:
		return Display{Label: string(r), Icon: "fas fa-user", Class: "bg-secondary"}
	}
}

// Initials returns the upper-cased first letters of the first and last
// name, or "??" when both are empty.
func Initials(u *model.User) string {
	if u == nil {
		return "??"
	}
	var b strings.Builder
	for _, part := range []string{u.FirstName, u.LastName} {
		r, _ := utf8.DecodeRuneInString(strings.TrimSpace(part))
		if r != utf8.RuneError {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	if b.Len() == 0 {
		return "??"
	}
	return b.String()
}

func LocationTooltip(f *model.Family) string {
	if f == nil || !f.HasLocation() {
		return "Localisation non définie"
	}
	return fmt.Sprintf("Localisation: %.4f, %.4f", *f.Latitude, *f.Longitude)
}

// MapsURL links to the family's coordinates, or returns "" without them.
func MapsURL(f *model.Family) string {
	if f == nil || !f.HasLocation() {
		return ""
	}
	return "https://www.google.com/maps?q=" +
		strconv.FormatFloat(*f.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(*f.Longitude, 'f', -1, 64)
}
