package handler

import "net/http"

// APIHandlers groups the REST handlers mounted under /api.
type APIHandlers struct {
	Families  *FamilyHandler
	Users     *UserHandler
	Auth      *AuthHandler
	AidTypes  *AidTypeHandler
	Visits    *VisitHandler
	Dashboard *DashboardHandler
}

// Routes registers the REST API on mux.
func Routes(mux *http.ServeMux, h APIHandlers) {
	mux.HandleFunc("GET /api/families", h.Families.List)
	mux.HandleFunc("POST /api/families", h.Families.Create)
	mux.HandleFunc("GET /api/families/search", h.Families.Search)
	mux.HandleFunc("GET /api/families/count", h.Families.Count)
	mux.HandleFunc("GET /api/families/priority/{level}", h.Families.ByPriority)
	mux.HandleFunc("GET /api/families/{id}", h.Families.Get)
	mux.HandleFunc("PUT /api/families/{id}", h.Families.Update)
	mux.HandleFunc("DELETE /api/families/{id}", h.Families.Delete)

	mux.HandleFunc("GET /api/users", h.Users.List)
	mux.HandleFunc("POST /api/users", h.Users.Create)
	mux.HandleFunc("POST /api/users/login", h.Auth.Login)
	mux.HandleFunc("GET /api/users/active", h.Users.Active)
	mux.HandleFunc("GET /api/users/role/{role}", h.Users.ByRole)
	mux.HandleFunc("GET /api/users/{id}", h.Users.Get)
	mux.HandleFunc("PUT /api/users/{id}", h.Users.Update)
	mux.HandleFunc("DELETE /api/users/{id}", h.Users.Delete)
	mux.HandleFunc("PUT /api/users/{id}/activate", h.Users.Activate)
	mux.HandleFunc("PUT /api/users/{id}/deactivate", h.Users.Deactivate)

	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)

	mux.HandleFunc("GET /api/aid-types", h.AidTypes.List)
	mux.HandleFunc("POST /api/aid-types", h.AidTypes.Create)
	mux.HandleFunc("GET /api/aid-types/active", h.AidTypes.Active)
	mux.HandleFunc("POST /api/aid-types/initialize", h.AidTypes.Initialize)
	mux.HandleFunc("GET /api/aid-types/category/{category}", h.AidTypes.ByCategory)
	mux.HandleFunc("GET /api/aid-types/{id}", h.AidTypes.Get)
	mux.HandleFunc("PUT /api/aid-types/{id}", h.AidTypes.Update)
	mux.HandleFunc("DELETE /api/aid-types/{id}", h.AidTypes.Delete)

	mux.HandleFunc("GET /api/visits", h.Visits.List)
	mux.HandleFunc("GET /api/visits/recent", h.Visits.Recent)
	mux.HandleFunc("GET /api/visits/family/{familyId}", h.Visits.ListByFamily)
	mux.HandleFunc("POST /api/visits/family/{familyId}", h.Visits.CreateForFamily)
	mux.HandleFunc("GET /api/visits/{id}", h.Visits.Get)
	mux.HandleFunc("PUT /api/visits/{id}", h.Visits.Update)
	mux.HandleFunc("DELETE /api/visits/{id}", h.Visits.Delete)

	mux.HandleFunc("GET /api/dashboard/stats", h.Dashboard.Stats)
	mux.HandleFunc("GET /api/dashboard/map", h.Dashboard.Map)
	mux.HandleFunc("GET /api/dashboard/family/{id}/stats", h.Dashboard.FamilyStats)
}
