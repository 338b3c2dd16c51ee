package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/omnia-aid/omnia/internal/model"
)

func createFamilyViaAPI(t *testing.T, api *testAPI, body map[string]any) model.Family {
	t.Helper()
	rec := api.do(t, "POST", "/api/families", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create family: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	return decode[model.Family](t, rec)
}

func TestFamilyCreateGeneratesReference(t *testing.T) {
	api := setupAPI(t)

	f := createFamilyViaAPI(t, api, map[string]any{
		"headOfFamily":  "Mohamed Ben Ali",
		"phone":         "12345678",
		"address":       "15 Rue de la République, Tunis",
		"familySize":    6,
		"priorityLevel": "medium",
	})
	if !strings.HasPrefix(f.Reference, "FAM-") {
		t.Errorf("reference = %q, want FAM- prefix", f.Reference)
	}
	if f.PriorityLevel != model.PriorityMedium {
		t.Errorf("priority = %q, want %q", f.PriorityLevel, model.PriorityMedium)
	}
	if got := api.events.types(); len(got) != 1 || got[0] != "family_created" {
		t.Errorf("events = %v, want [family_created]", got)
	}

	second := createFamilyViaAPI(t, api, map[string]any{"headOfFamily": "Fatima Trabelsi"})
	if second.Reference == f.Reference {
		t.Errorf("references collide: %q", second.Reference)
	}
}

func TestFamilyCreateValidation(t *testing.T) {
	api := setupAPI(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing head", map[string]any{"phone": "12345678"}, http.StatusBadRequest},
		{"bad priority", map[string]any{"headOfFamily": "Ali", "priorityLevel": "Urgent"}, http.StatusBadRequest},
		{"too large", map[string]any{"headOfFamily": "Ali", "familySize": 21}, http.StatusBadRequest},
		{"negative size", map[string]any{"headOfFamily": "Ali", "familySize": -1}, http.StatusBadRequest},
		{"lone longitude", map[string]any{"headOfFamily": "Ali", "longitude": 10.1}, http.StatusBadRequest},
		{"unknown aid type", map[string]any{"headOfFamily": "Ali", "frequentAidTypeIds": []string{"nope"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, "POST", "/api/families", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	req := api.do(t, "POST", "/api/families", nil)
	if req.Code != http.StatusBadRequest {
		t.Errorf("empty body status = %d, want 400", req.Code)
	}
}

func TestFamilyCreateDuplicateReference(t *testing.T) {
	api := setupAPI(t)

	createFamilyViaAPI(t, api, map[string]any{"reference": "FAM-2025-001", "headOfFamily": "Ali"})
	rec := api.do(t, "POST", "/api/families", map[string]any{"reference": "FAM-2025-001", "headOfFamily": "Other"})
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestFamilyGetUpdateDelete(t *testing.T) {
	api := setupAPI(t)

	f := createFamilyViaAPI(t, api, map[string]any{
		"headOfFamily": "Ali Jabeur", "phone": "34567890", "address": "Bizerte", "priorityLevel": "Low",
	})

	rec := api.do(t, "GET", "/api/families/"+f.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rec.Code)
	}

	rec = api.do(t, "PUT", "/api/families/"+f.ID, map[string]any{
		"priorityLevel": "High",
		"latitude":      37.2744,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("lone latitude: status = %d, want 400", rec.Code)
	}

	rec = api.do(t, "PUT", "/api/families/"+f.ID, map[string]any{"priorityLevel": "High"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	updated := decode[model.Family](t, rec)
	if updated.PriorityLevel != model.PriorityHigh {
		t.Errorf("priority = %q, want High", updated.PriorityLevel)
	}
	if updated.Phone != "34567890" {
		t.Errorf("phone = %q, want unchanged", updated.Phone)
	}

	rec = api.do(t, "DELETE", "/api/families/"+f.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rec.Code)
	}
	rec = api.do(t, "GET", "/api/families/"+f.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "family not found" {
		t.Errorf("error = %q, want %q", msg, "family not found")
	}
}

func TestFamilySearchPriorityCount(t *testing.T) {
	api := setupAPI(t)

	createFamilyViaAPI(t, api, map[string]any{"headOfFamily": "Mohamed Ben Ali", "address": "Tunis", "priorityLevel": "Medium"})
	createFamilyViaAPI(t, api, map[string]any{"headOfFamily": "Fatima Trabelsi", "address": "Sfax", "priorityLevel": "High"})
	createFamilyViaAPI(t, api, map[string]any{"headOfFamily": "Salma Ghanmi", "address": "Gabes", "priorityLevel": "High"})

	rec := api.do(t, "GET", "/api/families/search?query=tunis", nil)
	if got := decode[[]model.Family](t, rec); len(got) != 1 {
		t.Errorf("search = %d results, want 1", len(got))
	}

	rec = api.do(t, "GET", "/api/families/search?query=", nil)
	if got := decode[[]model.Family](t, rec); len(got) != 3 {
		t.Errorf("empty search = %d results, want 3", len(got))
	}

	rec = api.do(t, "GET", "/api/families/priority/HIGH", nil)
	if got := decode[[]model.Family](t, rec); len(got) != 2 {
		t.Errorf("high = %d results, want 2", len(got))
	}

	rec = api.do(t, "GET", "/api/families/priority/ALL", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown level status = %d, want 400", rec.Code)
	}

	rec = api.do(t, "GET", "/api/families/count", nil)
	if got := strings.TrimSpace(rec.Body.String()); got != "3" {
		t.Errorf("count body = %q, want %q", got, "3")
	}
}

func TestFamilyListEmptyIsArray(t *testing.T) {
	api := setupAPI(t)

	rec := api.do(t, "GET", "/api/families", nil)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestFamilyCreateOmittedSizeDefaultsToOne(t *testing.T) {
	api := setupAPI(t)

	for _, body := range []map[string]any{
		{"headOfFamily": "Ali"},
		{"headOfFamily": "Salma", "familySize": 0},
	} {
		f := createFamilyViaAPI(t, api, body)
		if f.FamilySize != 1 {
			t.Errorf("%v: familySize = %d, want 1", body, f.FamilySize)
		}
	}
}

func TestFamilyUnknownAidTypeRejected(t *testing.T) {
	api := setupAPI(t)

	rec := api.do(t, "POST", "/api/families", map[string]any{"headOfFamily": "Ali", "frequentAidTypeIds": []string{"nope"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("create: status = %d, want 400", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "unknown aid type: nope" {
		t.Errorf("error = %q", msg)
	}

	f := createFamilyViaAPI(t, api, map[string]any{"headOfFamily": "Ali"})
	rec = api.do(t, "PUT", "/api/families/"+f.ID, map[string]any{"frequentAidTypeIds": []string{"nope"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("update: status = %d, want 400", rec.Code)
	}
	if got := api.events.types(); len(got) != 1 {
		t.Errorf("events = %v, want only the create", got)
	}
}

func TestFamilyUpdateClearsAidTypesAndLocation(t *testing.T) {
	api := setupAPI(t)

	rec := api.do(t, "POST", "/api/aid-types", map[string]any{"name": "Couvertures", "category": "clothing"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create aid type: status = %d", rec.Code)
	}
	aid := decode[model.AidType](t, rec)

	f := createFamilyViaAPI(t, api, map[string]any{
		"headOfFamily":       "Ali",
		"latitude":           36.8,
		"longitude":          10.1,
		"frequentAidTypeIds": []string{aid.ID},
	})
	if len(f.FrequentAidTypes) != 1 || !f.HasLocation() {
		t.Fatalf("created family = %+v", f)
	}

	rec = api.do(t, "PUT", "/api/families/"+f.ID, map[string]any{"notes": "visite prévue", "frequentAidTypeIds": nil})
	if got := decode[model.Family](t, rec); len(got.FrequentAidTypes) != 1 || !got.HasLocation() {
		t.Errorf("null ids: family = %+v, want aid types and location kept", got)
	}

	rec = api.do(t, "PUT", "/api/families/"+f.ID, map[string]any{"frequentAidTypeIds": []string{}, "clearLocation": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decode[model.Family](t, rec)
	if len(got.FrequentAidTypes) != 0 {
		t.Errorf("aid types = %+v, want none", got.FrequentAidTypes)
	}
	if got.HasLocation() || got.Latitude != nil {
		t.Errorf("location = %v/%v, want cleared", got.Latitude, got.Longitude)
	}
}
