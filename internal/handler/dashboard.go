package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/omnia-aid/omnia/internal/model"
	"github.com/omnia-aid/omnia/internal/store"
)

const statsMonths = 6

type DashboardHandler struct {
	families *store.FamilyStore
	visits   *store.VisitStore
	logger   *slog.Logger
	now      func() time.Time
}

func NewDashboardHandler(fs *store.FamilyStore, vs *store.VisitStore, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{families: fs, visits: vs, logger: logger, now: time.Now}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats()
	if err != nil {
		h.logger.Error("dashboard stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) stats() (*model.DashboardStats, error) {
	var (
		s   model.DashboardStats
		err error
	)
	if s.TotalFamilies, err = h.families.Count(); err != nil {
		return nil, err
	}
	if s.TotalVisits, err = h.visits.Count(); err != nil {
		return nil, err
	}
	if s.FamiliesByPriority, err = h.families.CountByPriority(); err != nil {
		return nil, err
	}
	located, err := h.families.ListWithLocation()
	if err != nil {
		return nil, err
	}
	s.FamiliesWithLocation = len(located)
	if s.VisitsByType, err = h.visits.CountByType(); err != nil {
		return nil, err
	}

	current := monthStart(h.now().UTC())
	if s.VisitsThisMonth, err = h.visits.CountBetween(current, current.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}

	for i := statsMonths - 1; i >= 0; i-- {
		from := current.AddDate(0, -i, 0)
		to := from.AddDate(0, 1, 0)
		m := model.MonthlyStat{Month: from.Format("2006-01")}
		if m.Visits, err = h.visits.CountBetween(from, to); err != nil {
			return nil, err
		}
		if m.NewFamilies, err = h.families.CountCreatedBetween(from, to); err != nil {
			return nil, err
		}
		s.MonthlyStats = append(s.MonthlyStats, m)
	}
	return &s, nil
}

func (h *DashboardHandler) FamilyStats(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, err := h.families.GetByID(id)
	if err != nil {
		h.logger.Error("get family", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get family")
		return
	}
	if f == nil {
		writeError(w, http.StatusNotFound, "family not found")
		return
	}

	visits, err := h.visits.ListByFamily(id)
	if err != nil {
		h.logger.Error("list family visits", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list visits")
		return
	}

	stats := model.FamilyStats{FamilyID: id, TotalVisits: len(visits), OpenNeeds: []string{}}
	if len(visits) > 0 {
		last := visits[0]
		stats.LastVisit = &last
		if last.IdentifiedNeeds != nil {
			stats.OpenNeeds = last.IdentifiedNeeds
		}
		days := int(h.now().Sub(last.VisitDate).Hours() / 24)
		stats.DaysSinceLast = &days
	}
	writeJSON(w, http.StatusOK, stats)
}

// Map lists the located families as map markers.
func (h *DashboardHandler) Map(w http.ResponseWriter, r *http.Request) {
	located, err := h.families.ListWithLocation()
	if err != nil {
		h.logger.Error("list located families", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list families")
		return
	}
	points := make([]model.MapPoint, 0, len(located))
	for _, f := range located {
		points = append(points, model.MapPoint{
			ID:            f.ID,
			Reference:     f.Reference,
			HeadOfFamily:  f.HeadOfFamily,
			Latitude:      *f.Latitude,
			Longitude:     *f.Longitude,
			PriorityLevel: f.PriorityLevel,
		})
	}
	writeJSON(w, http.StatusOK, points)
}
