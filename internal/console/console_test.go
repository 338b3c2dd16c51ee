package console

import (
	"time"

	"github.com/omnia-aid/omnia/internal/model"
)

func ptr[T any](v T) *T { return &v }

func sampleFamilies() []model.Family {
	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return []model.Family{
		{ID: "1", Reference: "FAM-2025-001", HeadOfFamily: "Mohamed Ben Ali", Phone: "12345678",
			Address: "15 Rue de la République, Tunis", FamilySize: 6, PriorityLevel: model.PriorityMedium,
			Latitude: ptr(36.8065), Longitude: ptr(10.1815), CreatedAt: &created},
		{ID: "2", Reference: "FAM-2025-002", HeadOfFamily: "Fatma Trabelsi", Phone: "98765432",
			Address: "22 Avenue Habib Bourguiba, Sfax", FamilySize: 4, PriorityLevel: model.PriorityHigh,
			CreatedAt: &created},
		{ID: "3", Reference: "FAM-2025-003", HeadOfFamily: "Ahmed Khemiri", Phone: "55443322",
			Address: "8 Rue Ibn Khaldoun, Sousse", FamilySize: 8, PriorityLevel: model.PriorityHigh},
		{ID: "4", Reference: "FAM-2025-004", HeadOfFamily: "Leila Mansouri", Phone: "22334455",
			Address: "45 Boulevard du 7 Novembre, TUNIS", FamilySize: 5, PriorityLevel: model.PriorityLow},
	}
}

func sampleUsers() []model.User {
	return []model.User{
		{ID: "1", FirstName: "John", LastName: "Doe", Email: "john@omnia.org", Phone: "12345678", Role: model.RoleAdmin, Active: true},
		{ID: "2", FirstName: "Jane", LastName: "Smith", Email: "jane@omnia.org", Role: model.RoleManager, Active: false},
		{ID: "3", FirstName: "Élodie", LastName: "Martin", Email: "elodie@omnia.org", Phone: "55667788", Role: model.RoleVolunteer, Active: true},
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func familyIDs(fs []model.Family) []string { return ids(fs, func(f model.Family) string { return f.ID }) }
func userIDs(us []model.User) []string     { return ids(us, func(u model.User) string { return u.ID }) }
