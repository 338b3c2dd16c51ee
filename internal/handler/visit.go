package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/omnia-aid/omnia/internal/model"
	"github.com/omnia-aid/omnia/internal/store"
	"github.com/omnia-aid/omnia/internal/websocket"
)

type VisitHandler struct {
	visits   *store.VisitStore
	families *store.FamilyStore
	events   websocket.Publisher
	logger   *slog.Logger
}

func NewVisitHandler(vs *store.VisitStore, fs *store.FamilyStore, events websocket.Publisher, logger *slog.Logger) *VisitHandler {
	return &VisitHandler{visits: vs, families: fs, events: events, logger: logger}
}

func writeVisits(w http.ResponseWriter, visits []model.Visit) {
	if visits == nil {
		visits = []model.Visit{}
	}
	writeJSON(w, http.StatusOK, visits)
}

func (h *VisitHandler) List(w http.ResponseWriter, r *http.Request) {
	visits, err := h.visits.List()
	if err != nil {
		h.logger.Error("list visits", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list visits")
		return
	}
	writeVisits(w, visits)
}

// Recent lists visits dated within the last month.
func (h *VisitHandler) Recent(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	visits, err := h.visits.ListBetween(now.AddDate(0, -1, 0), now.Add(time.Second))
	if err != nil {
		h.logger.Error("list recent visits", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list visits")
		return
	}
	writeVisits(w, visits)
}

func (h *VisitHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.visits.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get visit", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get visit")
		return
	}
	if v == nil {
		writeError(w, http.StatusNotFound, "visit not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VisitHandler) familyExists(w http.ResponseWriter, id string) bool {
	f, err := h.families.GetByID(id)
	if err != nil {
		h.logger.Error("get family", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get family")
		return false
	}
	if f == nil {
		writeError(w, http.StatusNotFound, "family not found")
		return false
	}
	return true
}

func validVisitType(req *model.VisitRequest) string {
	if req.VisitType == "" {
		return ""
	}
	vt, err := model.ParseVisitType(string(req.VisitType))
	if err != nil {
		return err.Error()
	}
	req.VisitType = vt
	return ""
}

func (h *VisitHandler) CreateForFamily(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("familyId")
	if !h.familyExists(w, familyID) {
		return
	}

	var req model.VisitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := validVisitType(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	v, err := h.visits.Create(familyID, req)
	if err != nil {
		h.logger.Error("create visit", "error", err, "family", familyID)
		writeError(w, http.StatusInternalServerError, "failed to create visit")
		return
	}
	h.events.Publish(websocket.EntityVisit, websocket.ActionCreated, v.ID)
	writeJSON(w, http.StatusCreated, v)
}

func (h *VisitHandler) ListByFamily(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("familyId")
	if !h.familyExists(w, familyID) {
		return
	}
	visits, err := h.visits.ListByFamily(familyID)
	if err != nil {
		h.logger.Error("list family visits", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list visits")
		return
	}
	writeVisits(w, visits)
}

func (h *VisitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req model.VisitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := validVisitType(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	v, err := h.visits.Update(id, req)
	if err != nil {
		h.logger.Error("update visit", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to update visit")
		return
	}
	if v == nil {
		writeError(w, http.StatusNotFound, "visit not found")
		return
	}
	h.events.Publish(websocket.EntityVisit, websocket.ActionUpdated, v.ID)
	writeJSON(w, http.StatusOK, v)
}

func (h *VisitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	v, err := h.visits.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get visit")
		return
	}
	if v == nil {
		writeError(w, http.StatusNotFound, "visit not found")
		return
	}
	if err := h.visits.Delete(id); err != nil {
		h.logger.Error("delete visit", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete visit")
		return
	}
	h.events.Publish(websocket.EntityVisit, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}
