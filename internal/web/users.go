package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/omnia-aid/omnia/internal/console"
	"github.com/omnia-aid/omnia/internal/model"
	"github.com/omnia-aid/omnia/internal/source"
)

func userFilterFrom(q url.Values) console.UserFilter {
	f := console.UserFilter{
		Term:       strings.TrimSpace(q.Get("q")),
		Role:       strings.TrimSpace(q.Get("role")),
		ActiveOnly: q.Get("active") == "1",
	}
	if f.Role == "" {
		f.Role = console.AllRoles
	}
	return f
}

// Users renders the staff list. With scope=server the role or active
// filter is run by the API and the rest is applied locally.
func (h *ConsoleHandler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	filter := userFilterFrom(q)
	scope := q.Get("scope")

	data := h.page(r, "Utilisateurs")
	status := http.StatusOK

	all, demo, err := read(h, ctx, "user", "", func(s *source.Source) ([]model.User, error) {
		return s.Users.List(ctx)
	})
	if err != nil {
		h.logger.Error("failed to load users", "error", err)
		data["Error"] = "Impossible de charger les utilisateurs"
		status = statusFor(err)
	}
	list := console.NewUserList(all)
	list.Apply(filter)

	if removed := q.Get("removed"); removed != "" {
		list.Remove(removed)
	}
	if deleted := q.Get("deleted"); deleted != "" {
		data["Flash"] = fmt.Sprintf(`Utilisateur "%s" supprimé avec succès`, deleted)
	}

	visible := list.Visible()
	if err == nil && !demo && scope == "server" {
		if served, ok := h.serverUserFilter(r, filter); ok {
			visible = served
		}
	}

	data["Demo"] = demo
	data["Users"] = visible
	data["Total"] = len(list.All())
	data["Filter"] = filter
	data["Scope"] = scope
	data["Roles"] = model.Roles
	h.render(w, status, "users.html", data)
}

func (h *ConsoleHandler) serverUserFilter(r *http.Request, filter console.UserFilter) ([]model.User, bool) {
	ctx := r.Context()
	var (
		res []model.User
		err error
	)
	switch {
	case filter.Role != console.AllRoles:
		role, rerr := model.ParseRole(filter.Role)
		if rerr != nil {
			return nil, false
		}
		res, err = h.src.Users.ByRole(ctx, role)
	case filter.ActiveOnly:
		res, err = h.src.Users.Active(ctx)
	default:
		return nil, false
	}
	if err != nil {
		h.logger.Warn("server-side user filter failed, filtering locally", "error", err)
		return nil, false
	}
	return console.FilterUsers(res, filter), true
}

// loadUser fetches one user for a page. An unknown user sends the browser
// back to the list.
func (h *ConsoleHandler) loadUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	ctx := r.Context()
	id := r.PathValue("id")
	u, demo, err := read(h, ctx, "user", id, func(s *source.Source) (*model.User, error) {
		return s.Users.Get(ctx, id)
	})
	if err != nil || u == nil {
		if err == nil || statusFor(err) == http.StatusNotFound {
			http.Redirect(w, r, "/users", http.StatusSeeOther)
			return nil, false
		}
		h.logger.Error("failed to load user", "id", id, "error", err)
		h.renderError(w, r, statusFor(err), "Impossible de charger l'utilisateur", err)
		return nil, false
	}
	return u, demo
}

func (h *ConsoleHandler) UserDetail(w http.ResponseWriter, r *http.Request) {
	u, demo := h.loadUser(w, r)
	if u == nil {
		return
	}
	data := h.page(r, u.FullName())
	data["Demo"] = demo
	data["User"] = u
	h.render(w, http.StatusOK, "user_detail.html", data)
}

func (h *ConsoleHandler) renderUserForm(w http.ResponseWriter, r *http.Request, status int, id string, form console.UserForm, errs console.FieldErrors, msg string) {
	title := "Nouvel utilisateur"
	action := "/users"
	if id != "" {
		title = "Modifier l'utilisateur"
		action = "/users/" + url.PathEscape(id) + "/edit"
	}
	data := h.page(r, title)
	data["ID"] = id
	data["IsEdit"] = id != ""
	data["Action"] = action
	data["Form"] = form
	data["Errors"] = errs
	data["Error"] = msg
	data["Roles"] = model.Roles
	h.render(w, status, "user_form.html", data)
}

func (h *ConsoleHandler) UserNew(w http.ResponseWriter, r *http.Request) {
	h.renderUserForm(w, r, http.StatusOK, "", console.NewUserForm(), console.FieldErrors{}, "")
}

func (h *ConsoleHandler) UserEdit(w http.ResponseWriter, r *http.Request) {
	u, _ := h.loadUser(w, r)
	if u == nil {
		return
	}
	h.renderUserForm(w, r, http.StatusOK, r.PathValue("id"), console.UserFormFrom(u), console.FieldErrors{}, "")
}

// UserSave creates an account, or updates one when the route carries an
// id, then returns to the list.
func (h *ConsoleHandler) UserSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	form := console.UserFormFromValues(r.PostForm)
	if errs := console.ValidateUserForm(form, id == ""); len(errs) > 0 {
		h.renderUserForm(w, r, http.StatusUnprocessableEntity, id, form, errs, "Veuillez corriger les erreurs dans le formulaire.")
		return
	}

	var err error
	if id != "" {
		_, err = h.src.Users.Update(r.Context(), id, form.UpdateRequest())
	} else {
		_, err = h.src.Users.Create(r.Context(), form.CreateRequest())
	}
	if err != nil {
		failure := "Erreur lors de la création de l'utilisateur"
		if id != "" {
			failure = "Erreur lors de la mise à jour de l'utilisateur"
		}
		h.logger.Error("failed to save user", "id", id, "error", err)
		form.Password = ""
		h.renderUserForm(w, r, statusFor(err), id, form, console.FieldErrors{}, errorText(err, failure))
		return
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// UserSetActive returns the handler flipping an account on or off.
func (h *ConsoleHandler) UserSetActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var err error
		if active {
			_, err = h.src.Users.Activate(r.Context(), id)
		} else {
			_, err = h.src.Users.Deactivate(r.Context(), id)
		}
		if err != nil {
			h.logger.Error("failed to change user status", "id", id, "active", active, "error", err)
			h.renderError(w, r, statusFor(err), "Impossible de changer le statut", err)
			return
		}
		http.Redirect(w, r, localRedirect(r.PostFormValue("next"), "/users/"+url.PathEscape(id)), http.StatusSeeOther)
	}
}

// localRedirect accepts only same-site absolute paths.
func localRedirect(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return fallback
}

func (h *ConsoleHandler) UserDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	u, demo := h.loadUser(w, r)
	if u == nil {
		return
	}
	data := h.page(r, "Supprimer l'utilisateur")
	data["Demo"] = demo
	data["Message"] = fmt.Sprintf("Êtes-vous sûr de vouloir supprimer définitivement l'utilisateur \"%s\" ?\nCette action est irréversible.", u.FullName())
	data["Action"] = "/users/" + url.PathEscape(u.ID) + "/delete"
	data["Cancel"] = "/users/" + url.PathEscape(u.ID)
	data["Name"] = u.FullName()
	h.render(w, http.StatusOK, "confirm_delete.html", data)
}

func (h *ConsoleHandler) UserDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil || r.PostFormValue("confirm") != "yes" {
		http.Redirect(w, r, "/users/"+url.PathEscape(id), http.StatusSeeOther)
		return
	}
	if err := h.src.Users.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete user", "id", id, "error", err)
		h.renderError(w, r, statusFor(err), "Erreur lors de la suppression de l'utilisateur", err)
		return
	}
	h.logger.Info("user deleted", "id", id)
	name := r.PostFormValue("name")
	if name == "" {
		name = id
	}
	http.Redirect(w, r, "/users?"+url.Values{"deleted": {name}, "removed": {id}}.Encode(), http.StatusSeeOther)
}

