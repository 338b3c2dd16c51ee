package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/omnia-aid/omnia/internal/model"
	"github.com/omnia-aid/omnia/internal/store"
	"github.com/omnia-aid/omnia/internal/websocket"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type UserHandler struct {
	store  *store.UserStore
	events websocket.Publisher
	logger *slog.Logger
}

func NewUserHandler(s *store.UserStore, events websocket.Publisher, logger *slog.Logger) *UserHandler {
	return &UserHandler{store: s, events: events, logger: logger}
}

func writeUsers(w http.ResponseWriter, users []model.User) {
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List()
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeUsers(w, users)
}

func (h *UserHandler) Active(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListActive()
	if err != nil {
		h.logger.Error("list active users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeUsers(w, users)
}

func (h *UserHandler) ByRole(w http.ResponseWriter, r *http.Request) {
	role, err := model.ParseRole(r.PathValue("role"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	users, err := h.store.ListByRole(role)
	if err != nil {
		h.logger.Error("list users by role", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeUsers(w, users)
}

func (h *UserHandler) lookup(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	u, err := h.store.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return nil, false
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return nil, false
	}
	return u, true
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	u, status, msg := createUser(h.store, req, h.logger)
	if u == nil {
		writeError(w, status, msg)
		return
	}
	h.events.Publish(websocket.EntityUser, websocket.ActionCreated, u.ID)
	writeJSON(w, http.StatusCreated, u)
}

// createUser validates and stores a new account. On failure it returns a nil
// user with the status and message to answer with.
func createUser(s *store.UserStore, req model.CreateUserRequest, logger *slog.Logger) (*model.User, int, string) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	switch {
	case req.FirstName == "":
		return nil, http.StatusBadRequest, "firstName is required"
	case req.LastName == "":
		return nil, http.StatusBadRequest, "lastName is required"
	case !isEmail(req.Email):
		return nil, http.StatusBadRequest, "a valid email is required"
	case len(req.Password) < minPasswordLen:
		return nil, http.StatusBadRequest, "password must be at least 6 characters"
	}

	if req.Role == "" {
		req.Role = model.RoleVolunteer
	} else {
		role, err := model.ParseRole(string(req.Role))
		if err != nil {
			return nil, http.StatusBadRequest, err.Error()
		}
		req.Role = role
	}

	exists, err := s.EmailExists(req.Email)
	if err != nil {
		logger.Error("check email", "error", err)
		return nil, http.StatusInternalServerError, "failed to check email"
	}
	if exists {
		return nil, http.StatusConflict, "an account with that email already exists"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, http.StatusInternalServerError, "failed to hash password"
	}

	u, err := s.Create(req, string(hash))
	if err != nil {
		logger.Error("create user", "error", err)
		return nil, http.StatusInternalServerError, "failed to create user"
	}
	return u, http.StatusCreated, ""
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.FirstName = trimmed(req.FirstName)
	req.LastName = trimmed(req.LastName)
	req.Phone = trimmed(req.Phone)
	if (req.FirstName != nil && *req.FirstName == "") || (req.LastName != nil && *req.LastName == "") {
		writeError(w, http.StatusBadRequest, "names cannot be empty")
		return
	}
	if req.Role != nil {
		role, err := model.ParseRole(string(*req.Role))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Role = &role
	}
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < minPasswordLen {
			writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		if err := h.store.SetPasswordHash(existing.ID, string(hash)); err != nil {
			h.logger.Error("set password", "error", err, "id", existing.ID)
			writeError(w, http.StatusInternalServerError, "failed to update password")
			return
		}
	}

	req.Apply(existing)
	u, err := h.store.Update(existing)
	if err != nil {
		h.logger.Error("update user", "error", err, "id", existing.ID)
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	h.events.Publish(websocket.EntityUser, websocket.ActionUpdated, u.ID)
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	existing, ok := h.lookup(w, r)
	if !ok {
		return
	}
	u, err := h.store.SetActive(existing.ID, active)
	if err != nil {
		h.logger.Error("set user active", "error", err, "id", existing.ID)
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	action := websocket.ActionDeactivated
	if active {
		action = websocket.ActionActivated
	}
	h.events.Publish(websocket.EntityUser, action, u.ID)
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(u.ID); err != nil {
		h.logger.Error("delete user", "error", err, "id", u.ID)
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	h.events.Publish(websocket.EntityUser, websocket.ActionDeleted, u.ID)
	w.WriteHeader(http.StatusNoContent)
}
