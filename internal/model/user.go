package model

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleManager   Role = "Manager"
	RoleVolunteer Role = "Volunteer"
)

var Roles = []Role{RoleAdmin, RoleManager, RoleVolunteer}

// ParseRole accepts any casing of Admin, Manager or Volunteer.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Role        Role       `json:"role"`
	Active      bool       `json:"active"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
	Role      Role   `json:"role,omitempty"`
	Active    *bool  `json:"active,omitempty"`
}

// UpdateUserRequest is a partial update. Email is never changed.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *Role   `json:"role,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

func (req UpdateUserRequest) Apply(u *User) {
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
}
