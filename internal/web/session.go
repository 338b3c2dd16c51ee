package web

import (
	"net/http"
	"strings"

	"github.com/omnia-aid/omnia/internal/console"
	"github.com/omnia-aid/omnia/internal/middleware"
	"github.com/omnia-aid/omnia/internal/model"
)

func (h *ConsoleHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, "Connexion")
	data["Email"] = ""
	h.render(w, http.StatusOK, "login.html", data)
}

func (h *ConsoleHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	data := h.page(r, "Connexion")
	data["Email"] = email
	if email == "" || password == "" {
		data["Error"] = "Email et mot de passe requis"
		h.render(w, http.StatusBadRequest, "login.html", data)
		return
	}

	resp, err := h.src.Accounts.Login(r.Context(), model.LoginRequest{Email: email, Password: password})
	if err != nil {
		h.logger.Warn("login failed", "email", email, "error", err)
		data["Error"] = errorText(err, "Connexion impossible")
		h.render(w, statusFor(err), "login.html", data)
		return
	}
	if !h.startSession(w, resp) {
		data["Error"] = "Connexion impossible"
		h.render(w, http.StatusBadGateway, "login.html", data)
		return
	}
	h.logger.Info("user logged in", "user_id", resp.UserID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *ConsoleHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, "Inscription")
	data["Form"] = console.RegisterForm{Role: string(model.RoleVolunteer)}
	data["Roles"] = model.Roles
	h.render(w, http.StatusOK, "register.html", data)
}

// Register validates the form, creates the account and signs the new user
// in straight away.
func (h *ConsoleHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := console.RegisterFormFromValues(r.PostForm)
	data := h.page(r, "Inscription")
	data["Form"] = form
	data["Roles"] = model.Roles

	if errs := console.ValidateRegisterForm(form); len(errs) > 0 {
		data["Errors"] = errs
		h.render(w, http.StatusUnprocessableEntity, "register.html", data)
		return
	}

	resp, err := h.src.Accounts.Register(r.Context(), form.Request())
	if err != nil {
		h.logger.Warn("registration failed", "email", form.Email, "error", err)
		data["Error"] = registerErrorText(err)
		h.render(w, statusFor(err), "register.html", data)
		return
	}
	if !h.startSession(w, resp) {
		data["Error"] = registerErrorText(nil)
		h.render(w, http.StatusBadGateway, "register.html", data)
		return
	}
	h.logger.Info("user registered", "user_id", resp.UserID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func registerErrorText(err error) string {
	return errorText(err, "Une erreur est survenue lors de l'inscription")
}

// startSession stores the token in the session cookie after checking this
// console can read it back.
func (h *ConsoleHandler) startSession(w http.ResponseWriter, resp *model.AuthResponse) bool {
	if resp == nil || resp.Token == "" {
		h.logger.Error("auth response without token")
		return false
	}
	if h.tokens != nil {
		if _, err := h.tokens.Parse(resp.Token); err != nil {
			h.logger.Error("session token rejected", "error", err)
			return false
		}
		middleware.SetSessionCookie(w, resp.Token, h.tokens.TTL())
		return true
	}
	middleware.SetSessionCookie(w, resp.Token, 0)
	return true
}

func (h *ConsoleHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
