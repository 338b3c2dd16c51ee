package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/omnia-aid/omnia/internal/model"
)

type VisitStore struct {
	db *sql.DB
}

func NewVisitStore(db *sql.DB) *VisitStore {
	return &VisitStore{db: db}
}

const visitCols = `id, family_id, volunteer_id, visit_date, visit_type, observations, location_lat, location_lng,
	next_visit_date, synced, recorded_at`

func scanVisit(scanner interface{ Scan(...any) error }) (*model.Visit, error) {
	var (
		v         model.Visit
		volunteer sql.NullString
		lat, lng  sql.NullFloat64
		next      sql.NullTime
	)
	err := scanner.Scan(&v.ID, &v.FamilyID, &volunteer, &v.VisitDate, &v.VisitType, &v.Observations, &lat, &lng,
		&next, &v.Synced, &v.RecordedAt)
	if err != nil {
		return nil, err
	}
	v.VolunteerID = volunteer.String
	if lat.Valid && lng.Valid {
		v.LocationLat = &lat.Float64
		v.LocationLng = &lng.Float64
	}
	if next.Valid {
		v.NextVisitDate = &next.Time
	}
	return &v, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC().Truncate(time.Second), Valid: true}
}

// Create records a visit for familyID. The visit date defaults to today.
func (s *VisitStore) Create(familyID string, req model.VisitRequest) (*model.Visit, error) {
	id := uuid.NewString()
	ts := now()
	visitDate := ts
	if req.VisitDate != nil {
		visitDate = req.VisitDate.UTC().Truncate(time.Second)
	}
	if req.VisitType == "" {
		req.VisitType = model.VisitRegular
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO visits (`+visitCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, familyID, nullString(req.VolunteerID), visitDate, req.VisitType, req.Observations,
		nullFloat(req.LocationLat), nullFloat(req.LocationLng), nullTime(req.NextVisitDate), true, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert visit: %w", err)
	}
	if err := setVisitNeeds(tx, id, req.IdentifiedNeeds); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit visit: %w", err)
	}
	return s.GetByID(id)
}

func setVisitNeeds(tx *sql.Tx, visitID string, needs []string) error {
	if _, err := tx.Exec(`DELETE FROM visit_needs WHERE visit_id = ?`, visitID); err != nil {
		return fmt.Errorf("clear visit needs: %w", err)
	}
	for i, need := range needs {
		if _, err := tx.Exec(`INSERT INTO visit_needs (visit_id, position, need) VALUES (?, ?, ?)`, visitID, i, need); err != nil {
			return fmt.Errorf("insert visit need: %w", err)
		}
	}
	return nil
}

func (s *VisitStore) GetByID(id string) (*model.Visit, error) {
	row := s.db.QueryRow(`SELECT `+visitCols+` FROM visits WHERE id = ?`, id)
	v, err := scanVisit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get visit: %w", err)
	}
	if err := s.attachNeeds([]*model.Visit{v}); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VisitStore) List() ([]model.Visit, error) {
	return s.listWhere(``)
}

// ListByFamily returns the visits of one family, newest first.
func (s *VisitStore) ListByFamily(familyID string) ([]model.Visit, error) {
	return s.listWhere(`WHERE family_id = ?`, familyID)
}

// ListBetween returns visits dated in [from, to).
func (s *VisitStore) ListBetween(from, to time.Time) ([]model.Visit, error) {
	return s.listWhere(`WHERE visit_date >= ? AND visit_date < ?`, from.UTC(), to.UTC())
}

func (s *VisitStore) listWhere(where string, args ...any) ([]model.Visit, error) {
	rows, err := s.db.Query(`SELECT `+visitCols+` FROM visits `+where+` ORDER BY visit_date DESC, recorded_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	var visits []model.Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		visits = append(visits, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visits: %w", err)
	}
	rows.Close()

	ptrs := make([]*model.Visit, len(visits))
	for i := range visits {
		ptrs[i] = &visits[i]
	}
	if err := s.attachNeeds(ptrs); err != nil {
		return nil, err
	}
	return visits, nil
}

func (s *VisitStore) attachNeeds(visits []*model.Visit) error {
	if len(visits) == 0 {
		return nil
	}
	byID := make(map[string]*model.Visit, len(visits))
	placeholders := make([]string, 0, len(visits))
	args := make([]any, 0, len(visits))
	for _, v := range visits {
		byID[v.ID] = v
		placeholders = append(placeholders, "?")
		args = append(args, v.ID)
	}

	rows, err := s.db.Query(
		`SELECT visit_id, need FROM visit_needs WHERE visit_id IN (`+strings.Join(placeholders, ", ")+`) ORDER BY visit_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("query visit needs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var visitID, need string
		if err := rows.Scan(&visitID, &need); err != nil {
			return fmt.Errorf("scan visit need: %w", err)
		}
		if v, ok := byID[visitID]; ok {
			v.IdentifiedNeeds = append(v.IdentifiedNeeds, need)
		}
	}
	return rows.Err()
}

func (s *VisitStore) Update(id string, req model.VisitRequest) (*model.Visit, error) {
	existing, err := s.GetByID(id)
	if err != nil || existing == nil {
		return existing, err
	}
	visitDate := existing.VisitDate
	if req.VisitDate != nil {
		visitDate = req.VisitDate.UTC().Truncate(time.Second)
	}
	if req.VisitType == "" {
		req.VisitType = existing.VisitType
	}
	volunteer := req.VolunteerID
	if volunteer == "" {
		volunteer = existing.VolunteerID
	}
	lat, lng := existing.LocationLat, existing.LocationLng
	if req.LocationLat != nil && req.LocationLng != nil {
		lat, lng = req.LocationLat, req.LocationLng
	}
	next := existing.NextVisitDate
	if req.NextVisitDate != nil {
		next = req.NextVisitDate
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE visits SET volunteer_id = ?, visit_date = ?, visit_type = ?, observations = ?, location_lat = ?,
			location_lng = ?, next_visit_date = ?
		WHERE id = ?`,
		nullString(volunteer), visitDate, req.VisitType, req.Observations, nullFloat(lat), nullFloat(lng), nullTime(next), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update visit: %w", err)
	}
	if req.IdentifiedNeeds != nil {
		if err := setVisitNeeds(tx, id, req.IdentifiedNeeds); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit visit: %w", err)
	}
	return s.GetByID(id)
}

func (s *VisitStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM visits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete visit: %w", err)
	}
	return nil
}

func (s *VisitStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM visits`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count visits: %w", err)
	}
	return n, nil
}

// CountBetween counts visits dated in [from, to).
func (s *VisitStore) CountBetween(from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM visits WHERE visit_date >= ? AND visit_date < ?`, from.UTC(), to.UTC()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count visits between: %w", err)
	}
	return n, nil
}

// CountByType always carries an entry for each visit type.
func (s *VisitStore) CountByType() (map[model.VisitType]int, error) {
	counts := make(map[model.VisitType]int, len(model.VisitTypes))
	for _, t := range model.VisitTypes {
		counts[t] = 0
	}

	rows, err := s.db.Query(`SELECT visit_type, COUNT(*) FROM visits GROUP BY visit_type`)
	if err != nil {
		return nil, fmt.Errorf("count visits by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t model.VisitType
			n int
		)
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan visit type count: %w", err)
		}
		counts[t] = n
	}
	return counts, rows.Err()
}
