package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/omnia-aid/omnia/internal/model"
	"github.com/omnia-aid/omnia/internal/store"
	"github.com/omnia-aid/omnia/internal/websocket"
)

type AidTypeHandler struct {
	store  *store.AidTypeStore
	events websocket.Publisher
	logger *slog.Logger
}

func NewAidTypeHandler(s *store.AidTypeStore, events websocket.Publisher, logger *slog.Logger) *AidTypeHandler {
	return &AidTypeHandler{store: s, events: events, logger: logger}
}

func writeAidTypes(w http.ResponseWriter, types []model.AidType) {
	if types == nil {
		types = []model.AidType{}
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *AidTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.List()
	if err != nil {
		h.logger.Error("list aid types", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list aid types")
		return
	}
	writeAidTypes(w, types)
}

func (h *AidTypeHandler) Active(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.ListActive()
	if err != nil {
		h.logger.Error("list active aid types", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list aid types")
		return
	}
	writeAidTypes(w, types)
}

func (h *AidTypeHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	c, err := model.ParseAidCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	types, err := h.store.ListByCategory(c)
	if err != nil {
		h.logger.Error("list aid types by category", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list aid types")
		return
	}
	writeAidTypes(w, types)
}

func (h *AidTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get aid type", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get aid type")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "aid type not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// validAidTypeRequest normalises req and returns an error message when it is unusable.
func validAidTypeRequest(req *model.AidTypeRequest) string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.Category != "" {
		c, err := model.ParseAidCategory(string(req.Category))
		if err != nil {
			return err.Error()
		}
		req.Category = c
	}
	if req.Price != nil && req.Price.IsNegative() {
		return "price cannot be negative"
	}
	if req.DefaultQuantity < 0 {
		return "defaultQuantity cannot be negative"
	}
	return ""
}

func (h *AidTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.AidTypeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := validAidTypeRequest(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.store.GetByName(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check name")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "an aid type with that name already exists")
		return
	}

	a, err := h.store.Create(req)
	if err != nil {
		h.logger.Error("create aid type", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create aid type")
		return
	}
	h.events.Publish(websocket.EntityAidType, websocket.ActionCreated, a.ID)
	writeJSON(w, http.StatusCreated, a)
}

func (h *AidTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req model.AidTypeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := validAidTypeRequest(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	clash, err := h.store.GetByName(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check name")
		return
	}
	if clash != nil && clash.ID != id {
		writeError(w, http.StatusConflict, "an aid type with that name already exists")
		return
	}

	a, err := h.store.Update(id, req)
	if err != nil {
		h.logger.Error("update aid type", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to update aid type")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "aid type not found")
		return
	}
	h.events.Publish(websocket.EntityAidType, websocket.ActionUpdated, a.ID)
	writeJSON(w, http.StatusOK, a)
}

func (h *AidTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	a, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get aid type")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "aid type not found")
		return
	}
	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete aid type", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete aid type")
		return
	}
	h.events.Publish(websocket.EntityAidType, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// Initialize installs the default catalogue on an empty table and returns
// the full list.
func (h *AidTypeHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.SeedDefaults()
	if err != nil {
		h.logger.Error("seed aid types", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to initialize aid types")
		return
	}
	if n > 0 {
		h.logger.Info("seeded aid types", "count", n)
		h.events.Publish(websocket.EntityAidType, websocket.ActionCreated, "")
	}
	h.List(w, r)
}
