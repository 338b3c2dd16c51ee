package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/omnia-aid/omnia/internal/model"
)

type FamilyStore struct {
	db *sql.DB
}

func NewFamilyStore(db *sql.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

const familyCols = `id, reference, head_of_family, phone, address, latitude, longitude, family_size,
	needs_description, priority_level, notes, created_at, updated_at`

func scanFamily(scanner interface{ Scan(...any) error }) (*model.Family, error) {
	var (
		f                    model.Family
		lat, long            sql.NullFloat64
		createdAt, updatedAt time.Time
	)
	err := scanner.Scan(&f.ID, &f.Reference, &f.HeadOfFamily, &f.Phone, &f.Address, &lat, &long, &f.FamilySize,
		&f.NeedsDescription, &f.PriorityLevel, &f.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if lat.Valid && long.Valid {
		f.Latitude = &lat.Float64
		f.Longitude = &long.Float64
	}
	f.CreatedAt = &createdAt
	f.UpdatedAt = &updatedAt
	return &f, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Create inserts a family. The reference must already be set.
func (s *FamilyStore) Create(req model.FamilyCreateRequest) (*model.Family, error) {
	id := uuid.NewString()
	ts := now()

	lat, long := req.Latitude, req.Longitude
	if lat == nil || long == nil {
		lat, long = nil, nil
	}
	if req.FamilySize == 0 {
		req.FamilySize = 1
	}
	if req.PriorityLevel == "" {
		req.PriorityLevel = model.PriorityMedium
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO families (`+familyCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.Reference, req.HeadOfFamily, req.Phone, req.Address, nullFloat(lat), nullFloat(long), req.FamilySize,
		req.NeedsDescription, req.PriorityLevel, req.Notes, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert family: %w", err)
	}
	if err := setFamilyAidTypes(tx, id, req.FrequentAidTypeIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit family: %w", err)
	}
	return s.GetByID(id)
}

func setFamilyAidTypes(tx *sql.Tx, familyID string, aidTypeIDs []string) error {
	if _, err := tx.Exec(`DELETE FROM family_aid_types WHERE family_id = ?`, familyID); err != nil {
		return fmt.Errorf("clear family aid types: %w", err)
	}
	for _, aid := range aidTypeIDs {
		_, err := tx.Exec(`INSERT OR IGNORE INTO family_aid_types (family_id, aid_type_id) VALUES (?, ?)`, familyID, aid)
		if err != nil {
			return fmt.Errorf("link aid type %s: %w", aid, err)
		}
	}
	return nil
}

func (s *FamilyStore) GetByID(id string) (*model.Family, error) {
	row := s.db.QueryRow(`SELECT `+familyCols+` FROM families WHERE id = ?`, id)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	if err := s.attachAidTypes([]*model.Family{f}); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FamilyStore) List() ([]model.Family, error) {
	return s.listWhere("", "ORDER BY created_at DESC, reference")
}

// Search matches the query against head of family, address and reference
// with Unicode case folding, the same matching the console filter uses.
// Wildcard characters in the query are literal. An empty query lists
// everything.
func (s *FamilyStore) Search(query string) ([]model.Family, error) {
	needle := cases.Fold().String(strings.TrimSpace(query))
	all, err := s.List()
	if err != nil || needle == "" {
		return all, err
	}
	fold := cases.Fold()
	out := make([]model.Family, 0, len(all))
	for _, f := range all {
		for _, field := range []string{f.HeadOfFamily, f.Address, f.Reference} {
			if strings.Contains(fold.String(field), needle) {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}

func (s *FamilyStore) ListByPriority(p model.PriorityLevel) ([]model.Family, error) {
	return s.listWhere(`WHERE priority_level = ?`, "ORDER BY created_at DESC, reference", p)
}

func (s *FamilyStore) ListWithLocation() ([]model.Family, error) {
	return s.listWhere(`WHERE latitude IS NOT NULL AND longitude IS NOT NULL`, "ORDER BY reference")
}

func (s *FamilyStore) listWhere(where, order string, args ...any) ([]model.Family, error) {
	rows, err := s.db.Query(`SELECT `+familyCols+` FROM families `+where+` `+order, args...)
	if err != nil {
		return nil, fmt.Errorf("query families: %w", err)
	}
	defer rows.Close()

	var families []model.Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		families = append(families, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate families: %w", err)
	}
	rows.Close()

	ptrs := make([]*model.Family, len(families))
	for i := range families {
		ptrs[i] = &families[i]
	}
	if err := s.attachAidTypes(ptrs); err != nil {
		return nil, err
	}
	return families, nil
}

// attachAidTypes runs after the family rows are closed; the in-memory
// database used in tests has a single connection.
func (s *FamilyStore) attachAidTypes(families []*model.Family) error {
	if len(families) == 0 {
		return nil
	}
	byID := make(map[string]*model.Family, len(families))
	placeholders := make([]string, 0, len(families))
	args := make([]any, 0, len(families))
	for _, f := range families {
		byID[f.ID] = f
		placeholders = append(placeholders, "?")
		args = append(args, f.ID)
	}

	rows, err := s.db.Query(
		`SELECT fat.family_id, `+aidTypeColsPrefixed+`
		FROM family_aid_types fat JOIN aid_types a ON a.id = fat.aid_type_id
		WHERE fat.family_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY a.name`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("query family aid types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var familyID string
		a, err := scanAidType(rows, &familyID)
		if err != nil {
			return fmt.Errorf("scan family aid type: %w", err)
		}
		if f, ok := byID[familyID]; ok {
			f.FrequentAidTypes = append(f.FrequentAidTypes, *a)
		}
	}
	return rows.Err()
}

// Update persists every field of f. aidTypeIDs replaces the frequent aid
// types when non-nil.
func (s *FamilyStore) Update(f *model.Family, aidTypeIDs []string) (*model.Family, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE families SET head_of_family = ?, phone = ?, address = ?, latitude = ?, longitude = ?, family_size = ?,
			needs_description = ?, priority_level = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		f.HeadOfFamily, f.Phone, f.Address, nullFloat(f.Latitude), nullFloat(f.Longitude), f.FamilySize,
		f.NeedsDescription, f.PriorityLevel, f.Notes, now(), f.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update family: %w", err)
	}
	if aidTypeIDs != nil {
		if err := setFamilyAidTypes(tx, f.ID, aidTypeIDs); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit family: %w", err)
	}
	return s.GetByID(f.ID)
}

func (s *FamilyStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM families WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete family: %w", err)
	}
	return nil
}

func (s *FamilyStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM families`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count families: %w", err)
	}
	return n, nil
}

func (s *FamilyStore) ReferenceExists(reference string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM families WHERE reference = ?`, reference).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check reference exists: %w", err)
	}
	return count > 0, nil
}

// CountByPriority always carries an entry for each level.
func (s *FamilyStore) CountByPriority() (map[model.PriorityLevel]int, error) {
	counts := make(map[model.PriorityLevel]int, len(model.PriorityLevels))
	for _, p := range model.PriorityLevels {
		counts[p] = 0
	}

	rows, err := s.db.Query(`SELECT priority_level, COUNT(*) FROM families GROUP BY priority_level`)
	if err != nil {
		return nil, fmt.Errorf("count families by priority: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p model.PriorityLevel
			n int
		)
		if err := rows.Scan(&p, &n); err != nil {
			return nil, fmt.Errorf("scan priority count: %w", err)
		}
		counts[p] = n
	}
	return counts, rows.Err()
}

// CountCreatedBetween counts families created in [from, to).
func (s *FamilyStore) CountCreatedBetween(from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM families WHERE created_at >= ? AND created_at < ?`,
		from.UTC(), to.UTC(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count families created: %w", err)
	}
	return n, nil
}
