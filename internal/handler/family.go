package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/omnia-aid/omnia/internal/model"
	"github.com/omnia-aid/omnia/internal/store"
	"github.com/omnia-aid/omnia/internal/websocket"
)

const maxFamilySize = 20

type FamilyHandler struct {
	store    *store.FamilyStore
	aidTypes *store.AidTypeStore
	events   websocket.Publisher
	logger   *slog.Logger
}

func NewFamilyHandler(s *store.FamilyStore, aidTypes *store.AidTypeStore, events websocket.Publisher, logger *slog.Logger) *FamilyHandler {
	return &FamilyHandler{store: s, aidTypes: aidTypes, events: events, logger: logger}
}

// checkAidTypes writes a 400 naming the first unknown id.
func (h *FamilyHandler) checkAidTypes(w http.ResponseWriter, ids []string) bool {
	for _, id := range ids {
		a, err := h.aidTypes.GetByID(id)
		if err != nil {
			h.logger.Error("get aid type", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to check aid types")
			return false
		}
		if a == nil {
			writeError(w, http.StatusBadRequest, "unknown aid type: "+id)
			return false
		}
	}
	return true
}

// checkCoordinates rejects a lone latitude or longitude.
func checkCoordinates(w http.ResponseWriter, lat, long *float64) bool {
	if (lat == nil) != (long == nil) {
		writeError(w, http.StatusBadRequest, "latitude and longitude must be sent together")
		return false
	}
	return true
}

func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	families, err := h.store.List()
	if err != nil {
		h.logger.Error("list families", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list families")
		return
	}
	writeFamilies(w, families)
}

func writeFamilies(w http.ResponseWriter, families []model.Family) {
	if families == nil {
		families = []model.Family{}
	}
	writeJSON(w, http.StatusOK, families)
}

func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// lookup writes the error response itself when it returns false.
func (h *FamilyHandler) lookup(w http.ResponseWriter, r *http.Request) (*model.Family, bool) {
	f, err := h.store.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get family", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get family")
		return nil, false
	}
	if f == nil {
		writeError(w, http.StatusNotFound, "family not found")
		return nil, false
	}
	return f, true
}

func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.FamilyCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.HeadOfFamily = strings.TrimSpace(req.HeadOfFamily)
	req.Reference = strings.TrimSpace(req.Reference)
	if req.HeadOfFamily == "" {
		writeError(w, http.StatusBadRequest, "headOfFamily is required")
		return
	}
	// An omitted size decodes as 0 and defaults to one member.
	if req.FamilySize == 0 {
		req.FamilySize = 1
	}
	if req.FamilySize < 1 || req.FamilySize > maxFamilySize {
		writeError(w, http.StatusBadRequest, "familySize must be between 1 and 20")
		return
	}
	if req.PriorityLevel != "" {
		p, err := model.ParsePriorityLevel(string(req.PriorityLevel))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.PriorityLevel = p
	}
	if !checkCoordinates(w, req.Latitude, req.Longitude) || !h.checkAidTypes(w, req.FrequentAidTypeIDs) {
		return
	}

	if req.Reference == "" {
		ref, err := h.nextReference()
		if err != nil {
			h.logger.Error("generate reference", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to generate reference")
			return
		}
		req.Reference = ref
	} else {
		exists, err := h.store.ReferenceExists(req.Reference)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to check reference")
			return
		}
		if exists {
			writeError(w, http.StatusConflict, "a family with that reference already exists")
			return
		}
	}

	f, err := h.store.Create(req)
	if err != nil {
		h.logger.Error("create family", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create family")
		return
	}

	h.events.Publish(websocket.EntityFamily, websocket.ActionCreated, f.ID)
	writeJSON(w, http.StatusCreated, f)
}

// nextReference picks the first free FAM-YYYYMM-NNN after the current count.
func (h *FamilyHandler) nextReference() (string, error) {
	n, err := h.store.Count()
	if err != nil {
		return "", err
	}
	now := time.Now()
	for i := n + 1; ; i++ {
		ref := model.GenerateReference(now, i)
		exists, err := h.store.ReferenceExists(ref)
		if err != nil {
			return "", err
		}
		if !exists {
			return ref, nil
		}
	}
}

func (h *FamilyHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req model.FamilyUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.HeadOfFamily = trimmed(req.HeadOfFamily)
	if req.HeadOfFamily != nil && *req.HeadOfFamily == "" {
		writeError(w, http.StatusBadRequest, "headOfFamily cannot be empty")
		return
	}
	if req.FamilySize != nil && (*req.FamilySize < 1 || *req.FamilySize > maxFamilySize) {
		writeError(w, http.StatusBadRequest, "familySize must be between 1 and 20")
		return
	}
	if req.PriorityLevel != nil {
		p, err := model.ParsePriorityLevel(string(*req.PriorityLevel))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.PriorityLevel = &p
	}
	if !checkCoordinates(w, req.Latitude, req.Longitude) || !h.checkAidTypes(w, req.FrequentAidTypeIDs) {
		return
	}

	req.Apply(existing)
	f, err := h.store.Update(existing, req.FrequentAidTypeIDs)
	if err != nil {
		h.logger.Error("update family", "error", err, "id", existing.ID)
		writeError(w, http.StatusInternalServerError, "failed to update family")
		return
	}

	h.events.Publish(websocket.EntityFamily, websocket.ActionUpdated, f.ID)
	writeJSON(w, http.StatusOK, f)
}

func (h *FamilyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	f, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(f.ID); err != nil {
		h.logger.Error("delete family", "error", err, "id", f.ID)
		writeError(w, http.StatusInternalServerError, "failed to delete family")
		return
	}

	h.events.Publish(websocket.EntityFamily, websocket.ActionDeleted, f.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *FamilyHandler) Search(w http.ResponseWriter, r *http.Request) {
	families, err := h.store.Search(r.URL.Query().Get("query"))
	if err != nil {
		h.logger.Error("search families", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to search families")
		return
	}
	writeFamilies(w, families)
}

func (h *FamilyHandler) ByPriority(w http.ResponseWriter, r *http.Request) {
	p, err := model.ParsePriorityLevel(r.PathValue("level"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	families, err := h.store.ListByPriority(p)
	if err != nil {
		h.logger.Error("list families by priority", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list families")
		return
	}
	writeFamilies(w, families)
}

// Count answers with a bare JSON number.
func (h *FamilyHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Count()
	if err != nil {
		h.logger.Error("count families", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to count families")
		return
	}
	writeJSON(w, http.StatusOK, n)
}
