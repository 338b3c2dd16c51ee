// Package console holds the view logic of the web console: filtering,
// presentation tables, date formatting, CSV export and form validation.
// Nothing here performs I/O.
package console

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/omnia-aid/omnia/internal/model"
)

// Filter sentinels meaning "no restriction".
const (
	AllPriorities = "ALL"
	AllRoles      = "all"
)

// fold normalises s for case-insensitive matching. A Caser is stateful, so
// each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func containsFold(haystack, foldedNeedle string) bool {
	return strings.Contains(fold(haystack), foldedNeedle)
}

type FamilyFilter struct {
	Term     string
	Priority string
}

// FilterFamilies derives the visible families from the full set. The term
// matches head of family, address, phone or reference.
func FilterFamilies(all []model.Family, f FamilyFilter) []model.Family {
	term := fold(strings.TrimSpace(f.Term))
	priority := strings.TrimSpace(f.Priority)

	out := make([]model.Family, 0, len(all))
	for _, fam := range all {
		if priority != "" && priority != AllPriorities && string(fam.PriorityLevel) != priority {
			continue
		}
		if term != "" &&
			!containsFold(fam.HeadOfFamily, term) &&
			!containsFold(fam.Address, term) &&
			!strings.Contains(fam.Phone, term) &&
			!containsFold(fam.Reference, term) {
			continue
		}
		out = append(out, fam)
	}
	return out
}

type UserFilter struct {
	Term       string
	Role       string
	ActiveOnly bool
}

// FilterUsers matches the term against first name, last name, email and phone.
func FilterUsers(all []model.User, f UserFilter) []model.User {
	term := fold(strings.TrimSpace(f.Term))
	role := strings.TrimSpace(f.Role)

	out := make([]model.User, 0, len(all))
	for _, u := range all {
		if role != "" && role != AllRoles && string(u.Role) != role {
			continue
		}
		if f.ActiveOnly && !u.Active {
			continue
		}
		if term != "" &&
			!containsFold(u.FirstName, term) &&
			!containsFold(u.LastName, term) &&
			!containsFold(u.Email, term) &&
			!strings.Contains(u.Phone, term) {
			continue
		}
		out = append(out, u)
	}
	return out
}

type FamilyStats struct {
	Total        int
	High         int
	Medium       int
	Low          int
	TotalMembers int
	WithLocation int
}

// ComputeFamilyStats summarises the list page header.
func ComputeFamilyStats(families []model.Family) FamilyStats {
	var s FamilyStats
	s.Total = len(families)
	for _, f := range families {
		switch f.PriorityLevel {
		case model.PriorityHigh:
			s.High++
		case model.PriorityMedium:
			s.Medium++
		case model.PriorityLow:
			s.Low++
		}
		s.TotalMembers += f.FamilySize
		if f.HasLocation() {
			s.WithLocation++
		}
	}
	return s
}
