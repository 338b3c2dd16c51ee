package database

import "testing"

func TestOpenRunsMigrations(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"families", "aid_types", "family_aid_types", "users", "visits", "visit_needs"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestPriorityCheckConstraint(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`INSERT INTO families (id, reference, head_of_family, priority_level, created_at, updated_at)
		VALUES ('f1', 'FAM-1', 'Ali', 'Urgent', datetime('now'), datetime('now'))`)
	if err == nil {
		t.Fatal("expected check constraint violation for unknown priority")
	}
}
