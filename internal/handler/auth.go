package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/omnia-aid/omnia/internal/auth"
	"github.com/omnia-aid/omnia/internal/model"
	"github.com/omnia-aid/omnia/internal/store"
	"github.com/omnia-aid/omnia/internal/websocket"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	users  *store.UserStore
	tokens *auth.Tokens
	events websocket.Publisher
	logger *slog.Logger
}

func NewAuthHandler(us *store.UserStore, tokens *auth.Tokens, events websocket.Publisher, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: us, tokens: tokens, events: events, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	u, status, msg := createUser(h.users, model.CreateUserRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      req.Role,
	}, h.logger)
	if u == nil {
		writeError(w, status, msg)
		return
	}
	h.events.Publish(websocket.EntityUser, websocket.ActionCreated, u.ID)

	resp, err := h.respond(u)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Login accepts a JSON body or email/password form and query parameters.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	} else {
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.users.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}
	if u == nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	hash, err := h.users.PasswordHash(u.ID)
	if err != nil {
		h.logger.Error("login hash", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !u.Active {
		writeError(w, http.StatusForbidden, "account is deactivated")
		return
	}

	if err := h.users.TouchLastLogin(u.ID, time.Now()); err != nil {
		h.logger.Warn("touch last login", "error", err, "id", u.ID)
	}

	resp, err := h.respond(u)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) respond(u *model.User) (model.AuthResponse, error) {
	tok, err := h.tokens.Issue(u.ID, u.Email, string(u.Role))
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{
		Token:     tok,
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}, nil
}
