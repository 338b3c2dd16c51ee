package store

import (
	"testing"

	"github.com/omnia-aid/omnia/internal/model"
	"github.com/shopspring/decimal"
)

func TestAidTypeSeedDefaults(t *testing.T) {
	as := NewAidTypeStore(setupTestDB(t))

	n, err := as.SeedDefaults()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 6 {
		t.Errorf("seeded = %d, want 6", n)
	}

	again, err := as.SeedDefaults()
	if err != nil {
		t.Fatalf("seed again: %v", err)
	}
	if again != 0 {
		t.Errorf("second seed = %d, want 0", again)
	}

	school, err := as.ListByCategory(model.AidSchool)
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(school) != 1 || school[0].Name != "Fournitures scolaires" {
		t.Errorf("school = %+v, want Fournitures scolaires", school)
	}
}

func TestAidTypePrice(t *testing.T) {
	as := NewAidTypeStore(setupTestDB(t))

	price := decimal.RequireFromString("12.50")
	a, err := as.Create(model.AidTypeRequest{Name: "Kit hygiène", Category: model.AidHygiene, Price: &price})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Price == nil || !a.Price.Equal(price) {
		t.Errorf("price = %v, want 12.50", a.Price)
	}
	if !a.Active {
		t.Error("expected active by default")
	}

	got, err := as.GetByName("Kit hygiène")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if got == nil || got.ID != a.ID {
		t.Errorf("got = %+v, want id %q", got, a.ID)
	}
}

func TestAidTypeUpdateAndActive(t *testing.T) {
	as := NewAidTypeStore(setupTestDB(t))

	a, err := as.Create(model.AidTypeRequest{Name: "Vêtements", Category: model.AidClothing, DefaultQuantity: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := as.Update(a.ID, model.AidTypeRequest{Name: "Vêtements d'hiver", Active: ptr(false)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Vêtements d'hiver" || updated.Active {
		t.Errorf("updated = %+v, want renamed and inactive", updated)
	}
	if updated.Category != model.AidClothing || updated.DefaultQuantity != 5 {
		t.Errorf("updated = %+v, want category and quantity kept", updated)
	}

	active, err := as.ListActive()
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active = %d, want 0", len(active))
	}

	missing, err := as.Update("missing", model.AidTypeRequest{Name: "x"})
	if err != nil || missing != nil {
		t.Errorf("update missing = %v, %v; want nil, nil", missing, err)
	}
}

func TestAidTypeDuplicateName(t *testing.T) {
	as := NewAidTypeStore(setupTestDB(t))

	if _, err := as.Create(model.AidTypeRequest{Name: "Colis alimentaire"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := as.Create(model.AidTypeRequest{Name: "Colis alimentaire"}); err == nil {
		t.Fatal("expected error for duplicate name")
	}
}
