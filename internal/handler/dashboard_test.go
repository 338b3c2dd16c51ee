package handler

import (
	"net/http"
	"testing"

	"github.com/omnia-aid/omnia/internal/model"
)

func TestDashboardStats(t *testing.T) {
	api := setupAPI(t)

	f := createFamilyViaAPI(t, api, map[string]any{"headOfFamily": "Ali", "priorityLevel": "High", "latitude": 36.8, "longitude": 10.18})
	createFamilyViaAPI(t, api, map[string]any{"headOfFamily": "Salma", "priorityLevel": "Low"})
	api.do(t, "POST", "/api/visits/family/"+f.ID, map[string]any{"visitType": "FOLLOW_UP"})

	rec := api.do(t, "GET", "/api/dashboard/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	s := decode[model.DashboardStats](t, rec)
	if s.TotalFamilies != 2 || s.TotalVisits != 1 || s.VisitsThisMonth != 1 {
		t.Errorf("totals = %+v", s)
	}
	if s.FamiliesByPriority[model.PriorityHigh] != 1 || s.FamiliesByPriority[model.PriorityMedium] != 0 {
		t.Errorf("by priority = %v", s.FamiliesByPriority)
	}
	if s.FamiliesWithLocation != 1 {
		t.Errorf("with location = %d, want 1", s.FamiliesWithLocation)
	}
	if s.VisitsByType[model.VisitFollowUp] != 1 {
		t.Errorf("by type = %v", s.VisitsByType)
	}
	if len(s.MonthlyStats) != 6 {
		t.Fatalf("monthly = %d entries, want 6", len(s.MonthlyStats))
	}
	last := s.MonthlyStats[5]
	if last.Visits != 1 || last.NewFamilies != 2 {
		t.Errorf("current month = %+v", last)
	}
}

func TestDashboardFamilyStatsAndMap(t *testing.T) {
	api := setupAPI(t)

	f := createFamilyViaAPI(t, api, map[string]any{"headOfFamily": "Ali", "latitude": 36.8065, "longitude": 10.1815})
	api.do(t, "POST", "/api/visits/family/"+f.ID, map[string]any{"identifiedNeeds": []string{"Colis alimentaire"}})

	rec := api.do(t, "GET", "/api/dashboard/family/"+f.ID+"/stats", nil)
	fs := decode[model.FamilyStats](t, rec)
	if fs.TotalVisits != 1 || fs.LastVisit == nil || len(fs.OpenNeeds) != 1 {
		t.Errorf("family stats = %+v", fs)
	}
	if fs.DaysSinceLast == nil || *fs.DaysSinceLast != 0 {
		t.Errorf("days since last = %v, want 0", fs.DaysSinceLast)
	}

	rec = api.do(t, "GET", "/api/dashboard/family/missing/stats", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing family status = %d, want 404", rec.Code)
	}

	rec = api.do(t, "GET", "/api/dashboard/map", nil)
	points := decode[[]model.MapPoint](t, rec)
	if len(points) != 1 || points[0].Latitude != 36.8065 {
		t.Errorf("points = %+v", points)
	}
}
