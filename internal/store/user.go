package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/omnia-aid/omnia/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u         model.User
		createdAt time.Time
		lastLogin sql.NullTime
	)
	err := scanner.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Role, &u.Active, &createdAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = &createdAt
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return &u, nil
}

const userCols = `id, first_name, last_name, email, phone, role, active, created_at, last_login_at`

// Create inserts a user with an already hashed password.
func (s *UserStore) Create(req model.CreateUserRequest, passwordHash string) (*model.User, error) {
	id := uuid.NewString()
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	if req.Role == "" {
		req.Role = model.RoleVolunteer
	}

	_, err := s.db.Exec(
		`INSERT INTO users (id, first_name, last_name, email, phone, password_hash, role, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.FirstName, req.LastName, req.Email, req.Phone, passwordHash, req.Role, active, now(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) List() ([]model.User, error) {
	return s.listWhere(``)
}

func (s *UserStore) ListByRole(role model.Role) ([]model.User, error) {
	return s.listWhere(`WHERE role = ?`, role)
}

func (s *UserStore) ListActive() ([]model.User, error) {
	return s.listWhere(`WHERE active = 1`)
}

func (s *UserStore) listWhere(where string, args ...any) ([]model.User, error) {
	rows, err := s.db.Query(`SELECT `+userCols+` FROM users `+where+` ORDER BY last_name, first_name`, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Update persists the mutable profile fields of u. The email is never written.
func (s *UserStore) Update(u *model.User) (*model.User, error) {
	_, err := s.db.Exec(
		`UPDATE users SET first_name = ?, last_name = ?, phone = ?, role = ?, active = ? WHERE id = ?`,
		u.FirstName, u.LastName, u.Phone, u.Role, u.Active, u.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.GetByID(u.ID)
}

func (s *UserStore) SetPasswordHash(id, hash string) error {
	_, err := s.db.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

func (s *UserStore) SetActive(id string, active bool) (*model.User, error) {
	_, err := s.db.Exec(`UPDATE users SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return nil, fmt.Errorf("set user active: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) TouchLastLogin(id string, at time.Time) error {
	_, err := s.db.Exec(`UPDATE users SET last_login_at = ? WHERE id = ?`, at.UTC().Truncate(time.Second), id)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (s *UserStore) PasswordHash(id string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT password_hash FROM users WHERE id = ?`, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("user not found")
	}
	if err != nil {
		return "", fmt.Errorf("query password hash: %w", err)
	}
	return hash, nil
}

func (s *UserStore) EmailExists(email string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return count > 0, nil
}

func (s *UserStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
