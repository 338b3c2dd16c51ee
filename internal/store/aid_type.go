package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/omnia-aid/omnia/internal/model"
	"github.com/shopspring/decimal"
)

type AidTypeStore struct {
	db *sql.DB
}

func NewAidTypeStore(db *sql.DB) *AidTypeStore {
	return &AidTypeStore{db: db}
}

const aidTypeCols = `id, name, category, description, unit, price, active, default_quantity, icon, created_at, updated_at`

const aidTypeColsPrefixed = `a.id, a.name, a.category, a.description, a.unit, a.price, a.active, a.default_quantity, a.icon,
	a.created_at, a.updated_at`

// scanAidType scans the aid type columns after any leading columns.
func scanAidType(scanner interface{ Scan(...any) error }, leading ...any) (*model.AidType, error) {
	var (
		a                    model.AidType
		price                decimal.NullDecimal
		createdAt, updatedAt time.Time
	)
	dest := append(leading, &a.ID, &a.Name, &a.Category, &a.Description, &a.Unit, &price, &a.Active,
		&a.DefaultQuantity, &a.Icon, &createdAt, &updatedAt)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	if price.Valid {
		a.Price = &price.Decimal
	}
	a.CreatedAt = &createdAt
	a.UpdatedAt = &updatedAt
	return &a, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func (s *AidTypeStore) Create(req model.AidTypeRequest) (*model.AidType, error) {
	id := uuid.NewString()
	ts := now()
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	if req.Category == "" {
		req.Category = model.AidOther
	}
	if req.DefaultQuantity == 0 {
		req.DefaultQuantity = 1
	}

	_, err := s.db.Exec(
		`INSERT INTO aid_types (`+aidTypeCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.Name, req.Category, req.Description, req.Unit, nullDecimal(req.Price), active,
		req.DefaultQuantity, req.Icon, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert aid type: %w", err)
	}
	return s.GetByID(id)
}

func (s *AidTypeStore) GetByID(id string) (*model.AidType, error) {
	return s.getWhere(`id = ?`, id)
}

func (s *AidTypeStore) GetByName(name string) (*model.AidType, error) {
	return s.getWhere(`name = ?`, name)
}

func (s *AidTypeStore) getWhere(cond string, arg any) (*model.AidType, error) {
	row := s.db.QueryRow(`SELECT `+aidTypeCols+` FROM aid_types WHERE `+cond, arg)
	a, err := scanAidType(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get aid type: %w", err)
	}
	return a, nil
}

func (s *AidTypeStore) List() ([]model.AidType, error) {
	return s.listWhere(``)
}

func (s *AidTypeStore) ListActive() ([]model.AidType, error) {
	return s.listWhere(`WHERE active = 1`)
}

func (s *AidTypeStore) ListByCategory(c model.AidCategory) ([]model.AidType, error) {
	return s.listWhere(`WHERE category = ?`, c)
}

func (s *AidTypeStore) listWhere(where string, args ...any) ([]model.AidType, error) {
	rows, err := s.db.Query(`SELECT `+aidTypeCols+` FROM aid_types `+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("query aid types: %w", err)
	}
	defer rows.Close()

	var types []model.AidType
	for rows.Next() {
		a, err := scanAidType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan aid type: %w", err)
		}
		types = append(types, *a)
	}
	return types, rows.Err()
}

func (s *AidTypeStore) Update(id string, req model.AidTypeRequest) (*model.AidType, error) {
	existing, err := s.GetByID(id)
	if err != nil || existing == nil {
		return existing, err
	}
	active := existing.Active
	if req.Active != nil {
		active = *req.Active
	}
	if req.Category == "" {
		req.Category = existing.Category
	}
	if req.DefaultQuantity == 0 {
		req.DefaultQuantity = existing.DefaultQuantity
	}

	_, err = s.db.Exec(
		`UPDATE aid_types SET name = ?, category = ?, description = ?, unit = ?, price = ?, active = ?,
			default_quantity = ?, icon = ?, updated_at = ?
		WHERE id = ?`,
		req.Name, req.Category, req.Description, req.Unit, nullDecimal(req.Price), active,
		req.DefaultQuantity, req.Icon, now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update aid type: %w", err)
	}
	return s.GetByID(id)
}

func (s *AidTypeStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM aid_types WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete aid type: %w", err)
	}
	return nil
}

// SeedDefaults installs the default catalogue when the table is empty and
// reports how many rows it created.
func (s *AidTypeStore) SeedDefaults() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM aid_types`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count aid types: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, req := range model.DefaultAidTypes() {
		if _, err := s.Create(req); err != nil {
			return created, fmt.Errorf("seed %s: %w", req.Name, err)
		}
		created++
	}
	return created, nil
}
