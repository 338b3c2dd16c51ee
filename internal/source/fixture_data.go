package source

import (
	"strconv"
	"time"

	"github.com/omnia-aid/omnia/internal/model"
)

// DefaultPassword signs in any of the seeded fixture users.
const DefaultPassword = "omnia123"

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func coord(v float64) *float64 { return &v }

func seedAidTypes() []model.AidType {
	defaults := model.DefaultAidTypes()
	out := make([]model.AidType, 0, len(defaults))
	for i, d := range defaults {
		out = append(out, model.AidType{
			ID:              strconv.Itoa(i + 1),
			Name:            d.Name,
			Category:        d.Category,
			Description:     d.Description,
			Unit:            d.Unit,
			Active:          true,
			DefaultQuantity: d.DefaultQuantity,
			Icon:            d.Icon,
		})
	}
	return out
}

func seedFamilies() []model.Family {
	return []model.Family{
		{
			ID:               "550e8400-e29b-41d4-a716-446655440000",
			Reference:        "FAM-2025-001",
			HeadOfFamily:     "Mohamed Ben Ali",
			Phone:            "12345678",
			Address:          "15 Rue de la République, Tunis",
			Latitude:         coord(36.8065),
			Longitude:        coord(10.1815),
			FamilySize:       6,
			NeedsDescription: "Besoin d'aide alimentaire et de fournitures scolaires",
			PriorityLevel:    model.PriorityMedium,
			Notes:            "Famille avec 4 enfants en âge scolaire",
			CreatedAt:        day(2024, time.January, 15),
			UpdatedAt:        day(2024, time.January, 20),
		},
		{
			ID:               "550e8400-e29b-41d4-a716-446655440001",
			Reference:        "FAM-2025-002",
			HeadOfFamily:     "Fatima Trabelsi",
			Phone:            "23456789",
			Address:          "45 Avenue Habib Bourguiba, Sfax",
			Latitude:         coord(34.7406),
			Longitude:        coord(10.7603),
			FamilySize:       4,
			NeedsDescription: "Aide médicale et produits d'hygiène",
			PriorityLevel:    model.PriorityHigh,
			Notes:            "Mère célibataire avec 3 enfants",
			CreatedAt:        day(2024, time.January, 10),
			UpdatedAt:        day(2024, time.January, 18),
		},
		{
			ID:               "550e8400-e29b-41d4-a716-446655440002",
			Reference:        "FAM-2025-003",
			HeadOfFamily:     "Ali Jabeur",
			Phone:            "34567890",
			Address:          "78 Rue du Lac, Bizerte",
			Latitude:         coord(37.2744),
			Longitude:        coord(9.8739),
			FamilySize:       5,
			NeedsDescription: "Vêtements et couvertures pour l'hiver",
			PriorityLevel:    model.PriorityLow,
			Notes:            "Personne âgée avec famille élargie",
			CreatedAt:        day(2023, time.December, 20),
			UpdatedAt:        day(2024, time.January, 5),
		},
		{
			ID:               "550e8400-e29b-41d4-a716-446655440003",
			Reference:        "FAM-2025-004",
			HeadOfFamily:     "Salma Ghanmi",
			Phone:            "45678901",
			Address:          "32 Avenue de la Liberté, Gabès",
			Latitude:         coord(33.8815),
			Longitude:        coord(10.0982),
			FamilySize:       7,
			NeedsDescription: "Aide alimentaire mensuelle",
			PriorityLevel:    model.PriorityHigh,
			Notes:            "Famille avec des personnes handicapées",
			CreatedAt:        day(2024, time.January, 5),
			UpdatedAt:        day(2024, time.January, 15),
		},
		{
			ID:               "550e8400-e29b-41d4-a716-446655440004",
			Reference:        "FAM-2025-005",
			HeadOfFamily:     "Karim Hammami",
			Phone:            "56789012",
			Address:          "12 Rue des Oliviers, Nabeul",
			Latitude:         coord(36.4511),
			Longitude:        coord(10.7351),
			FamilySize:       3,
			NeedsDescription: "Aide pour loyer et factures",
			PriorityLevel:    model.PriorityMedium,
			Notes:            "Chômeur avec 2 enfants",
			CreatedAt:        day(2024, time.January, 12),
			UpdatedAt:        day(2024, time.January, 19),
		},
	}
}

// detailFamily is served for any id the fixture does not hold, so a detail
// page always has a complete record to show.
func detailFamily(id string, aidTypes []model.AidType) *model.Family {
	f := &model.Family{
		ID:           id,
		Reference:    "FAM-2025-001",
		HeadOfFamily: "Mohamed Ben Ali",
		Phone:        "12345678",
		Address:      "15 Rue de la République, Tunis",
		Latitude:     coord(36.8065),
		Longitude:    coord(10.1815),
		FamilySize:   6,
		NeedsDescription: "Besoin d'aide alimentaire régulière et de fournitures scolaires pour 4 enfants. " +
			"La famille a également besoin de vêtements pour l'hiver et d'une assistance médicale occasionnelle.",
		PriorityLevel: model.PriorityMedium,
		Notes: "Famille avec 4 enfants en âge scolaire (8, 10, 12, 14 ans). " +
			"Le père est travailleur journalier avec un revenu irrégulier. Deux des enfants ont besoin de lunettes.",
		CreatedAt: day(2024, time.January, 15),
		UpdatedAt: day(2024, time.January, 20),
	}
	for _, a := range aidTypes {
		if a.Name == "Colis alimentaire" || a.Name == "Fournitures scolaires" {
			f.FrequentAidTypes = append(f.FrequentAidTypes, a)
		}
	}
	return f
}

func seedUsers(now time.Time) []model.User {
	created := now.UTC().Truncate(time.Second)
	return []model.User{
		{ID: "1", FirstName: "John", LastName: "Doe", Email: "john@example.com", Phone: "+1234567890",
			Role: model.RoleAdmin, Active: true, CreatedAt: &created},
		{ID: "2", FirstName: "Jane", LastName: "Smith", Email: "jane@example.com", Phone: "+0987654321",
			Role: model.RoleVolunteer, Active: false, CreatedAt: &created},
		{ID: "3", FirstName: "Bob", LastName: "Wilson", Email: "bob@example.com", Phone: "+33612345678",
			Role: model.RoleManager, Active: true, CreatedAt: &created},
	}
}
