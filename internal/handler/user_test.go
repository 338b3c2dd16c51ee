package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/omnia-aid/omnia/internal/model"
)

func createUserViaAPI(t *testing.T, api *testAPI, email string, role string) model.User {
	t.Helper()
	rec := api.do(t, "POST", "/api/users", map[string]any{
		"firstName": "John",
		"lastName":  "Doe",
		"email":     email,
		"password":  "secret1",
		"role":      role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	return decode[model.User](t, rec)
}

func TestUserCreate(t *testing.T) {
	api := setupAPI(t)

	u := createUserViaAPI(t, api, "john@example.com", "admin")
	if u.Role != model.RoleAdmin {
		t.Errorf("role = %q, want %q", u.Role, model.RoleAdmin)
	}
	if !u.Active {
		t.Error("expected active user")
	}

	rec := api.do(t, "GET", "/api/users/"+u.ID, nil)
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("user JSON leaks password: %s", rec.Body.String())
	}
}

func TestUserCreateValidation(t *testing.T) {
	api := setupAPI(t)
	createUserViaAPI(t, api, "john@example.com", "")

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"bad email", map[string]any{"firstName": "A", "lastName": "B", "email": "nope", "password": "secret1"}, http.StatusBadRequest},
		{"short password", map[string]any{"firstName": "A", "lastName": "B", "email": "a@b.tn", "password": "123"}, http.StatusBadRequest},
		{"bad role", map[string]any{"firstName": "A", "lastName": "B", "email": "a@b.tn", "password": "secret1", "role": "Boss"}, http.StatusBadRequest},
		{"duplicate email", map[string]any{"firstName": "A", "lastName": "B", "email": "john@example.com", "password": "secret1"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, "POST", "/api/users", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestUserUpdateNeverChangesEmail(t *testing.T) {
	api := setupAPI(t)
	u := createUserViaAPI(t, api, "john@example.com", "Volunteer")

	rec := api.do(t, "PUT", "/api/users/"+u.ID, map[string]any{
		"firstName": "Johnny",
		"email":     "changed@example.com",
		"role":      "Manager",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decode[model.User](t, rec)
	if got.Email != "john@example.com" {
		t.Errorf("email = %q, want unchanged", got.Email)
	}
	if got.FirstName != "Johnny" || got.Role != model.RoleManager {
		t.Errorf("user = %+v", got)
	}
}

func TestUserActivateDeactivateAndFilters(t *testing.T) {
	api := setupAPI(t)
	u := createUserViaAPI(t, api, "john@example.com", "Admin")
	createUserViaAPI(t, api, "jane@example.com", "Volunteer")

	rec := api.do(t, "PUT", "/api/users/"+u.ID+"/deactivate", nil)
	if got := decode[model.User](t, rec); got.Active {
		t.Error("expected inactive after deactivate")
	}

	rec = api.do(t, "GET", "/api/users/active", nil)
	if got := decode[[]model.User](t, rec); len(got) != 1 {
		t.Errorf("active = %d, want 1", len(got))
	}

	rec = api.do(t, "PUT", "/api/users/"+u.ID+"/activate", nil)
	if got := decode[model.User](t, rec); !got.Active {
		t.Error("expected active after activate")
	}

	rec = api.do(t, "GET", "/api/users/role/volunteer", nil)
	if got := decode[[]model.User](t, rec); len(got) != 1 || got[0].Email != "jane@example.com" {
		t.Errorf("volunteers = %+v", got)
	}

	rec = api.do(t, "DELETE", "/api/users/"+u.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}

	types := api.events.types()
	want := []string{"user_created", "user_created", "user_deactivated", "user_activated", "user_deleted"}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", types, want)
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	api := setupAPI(t)

	rec := api.do(t, "POST", "/api/auth/register", map[string]any{
		"firstName": "Fatima",
		"lastName":  "Trabelsi",
		"email":     "fatima@omnia.tn",
		"password":  "secret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	reg := decode[model.AuthResponse](t, rec)
	if reg.Token == "" || reg.Role != model.RoleVolunteer {
		t.Errorf("register response = %+v", reg)
	}

	rec = api.do(t, "POST", "/api/auth/login", map[string]any{"email": "fatima@omnia.tn", "password": "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decode[model.AuthResponse](t, rec)
	ac, err := api.tokens.Parse(resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if ac.Email != "fatima@omnia.tn" {
		t.Errorf("token email = %q", ac.Email)
	}

	rec = api.do(t, "GET", "/api/users/"+resp.UserID, nil)
	if got := decode[model.User](t, rec); got.LastLoginAt == nil {
		t.Error("expected lastLoginAt to be stamped")
	}
}

func TestLoginFailures(t *testing.T) {
	api := setupAPI(t)
	u := createUserViaAPI(t, api, "john@example.com", "Admin")

	rec := api.do(t, "POST", "/api/auth/login", map[string]any{"email": "john@example.com", "password": "wrong!"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rec.Code)
	}
	rec = api.do(t, "POST", "/api/auth/login", map[string]any{"email": "ghost@example.com", "password": "secret1"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown email status = %d, want 401", rec.Code)
	}

	api.do(t, "PUT", "/api/users/"+u.ID+"/deactivate", nil)
	rec = api.do(t, "POST", "/api/auth/login", map[string]any{"email": "john@example.com", "password": "secret1"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("deactivated status = %d, want 403", rec.Code)
	}
}

func TestUsersLoginAcceptsParams(t *testing.T) {
	api := setupAPI(t)
	createUserViaAPI(t, api, "john@example.com", "Admin")

	q := url.Values{"email": {"john@example.com"}, "password": {"secret1"}}
	req := httptest.NewRequest("POST", "/api/users/login?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	api.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := decode[model.AuthResponse](t, rec); got.Email != "john@example.com" {
		t.Errorf("email = %q", got.Email)
	}
}
