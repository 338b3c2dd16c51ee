package web

import "net/http"

// PublicRoutes registers the pages reachable without a session. limit
// wraps the credential POSTs.
func (h *ConsoleHandler) PublicRoutes(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.Handle("POST /login", limit(http.HandlerFunc(h.Login)))
	mux.HandleFunc("GET /register", h.RegisterPage)
	mux.Handle("POST /register", limit(http.HandlerFunc(h.Register)))
}

// Routes registers the console pages.
func (h *ConsoleHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /dashboard", h.Dashboard)

	mux.HandleFunc("GET /families", h.Families)
	mux.HandleFunc("POST /families", h.FamilySave)
	mux.HandleFunc("GET /families/export.csv", h.ExportCSV)
	mux.HandleFunc("GET /families/new", h.FamilyNew)
	mux.HandleFunc("GET /families/{id}", h.FamilyDetail)
	mux.HandleFunc("GET /families/{id}/edit", h.FamilyEdit)
	mux.HandleFunc("POST /families/{id}/edit", h.FamilySave)
	mux.HandleFunc("GET /families/{id}/sheet.pdf", h.FamilySheet)
	mux.HandleFunc("GET /families/{id}/delete", h.FamilyDeleteConfirm)
	mux.HandleFunc("POST /families/{id}/delete", h.FamilyDelete)

	mux.HandleFunc("GET /users", h.Users)
	mux.HandleFunc("POST /users", h.UserSave)
	mux.HandleFunc("GET /users/new", h.UserNew)
	mux.HandleFunc("GET /users/{id}", h.UserDetail)
	mux.HandleFunc("GET /users/{id}/edit", h.UserEdit)
	mux.HandleFunc("POST /users/{id}/edit", h.UserSave)
	mux.HandleFunc("POST /users/{id}/activate", h.UserSetActive(true))
	mux.HandleFunc("POST /users/{id}/deactivate", h.UserSetActive(false))
	mux.HandleFunc("GET /users/{id}/delete", h.UserDeleteConfirm)
	mux.HandleFunc("POST /users/{id}/delete", h.UserDelete)
}
