package web

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/omnia-aid/omnia/internal/apiclient"
	"github.com/omnia-aid/omnia/internal/console"
	"github.com/omnia-aid/omnia/internal/model"
	"github.com/omnia-aid/omnia/internal/report"
	"github.com/omnia-aid/omnia/internal/source"
)

// referenceAttempts bounds the retries when a generated reference is taken.
const referenceAttempts = 3

func familyFilterFrom(q url.Values) console.FamilyFilter {
	f := console.FamilyFilter{
		Term:     strings.TrimSpace(q.Get("q")),
		Priority: strings.TrimSpace(q.Get("priority")),
	}
	if f.Priority == "" {
		f.Priority = console.AllPriorities
	}
	return f
}

func (h *ConsoleHandler) loadFamilies(ctx context.Context) ([]model.Family, bool, error) {
	return read(h, ctx, "family", "", func(s *source.Source) ([]model.Family, error) {
		return s.Families.List(ctx)
	})
}

// Families renders the family list. With scope=server the search and
// priority filters are run by the API, falling back to local filtering if
// that call fails.
func (h *ConsoleHandler) Families(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	filter := familyFilterFrom(q)
	scope := q.Get("scope")

	data := h.page(r, "Familles")
	status := http.StatusOK

	all, demo, err := h.loadFamilies(ctx)
	if err != nil {
		h.logger.Error("failed to load families", "error", err)
		data["Error"] = "Impossible de charger les familles"
		status = statusFor(err)
	}
	list := console.NewFamilyList(all)
	list.Apply(filter)

	// The row just deleted stays out even if the reload still lists it.
	if removed := q.Get("removed"); removed != "" {
		list.Remove(removed)
	}
	if deleted := q.Get("deleted"); deleted != "" {
		data["Flash"] = fmt.Sprintf(`Famille "%s" supprimée avec succès`, deleted)
	}

	visible := list.Visible()
	visibleStats := list.VisibleStats()
	if err == nil && !demo && scope == "server" {
		if served, ok := h.serverFilter(ctx, filter); ok {
			visible = served
			visibleStats = console.ComputeFamilyStats(served)
		}
		if n, cerr := h.src.Families.Count(ctx); cerr == nil {
			data["ServerCount"] = n
		} else {
			h.logger.Warn("failed to count families", "error", cerr)
		}
	}

	data["Demo"] = demo
	data["Families"] = visible
	data["Stats"] = list.Stats()
	data["VisibleStats"] = visibleStats
	data["Filter"] = filter
	data["Scope"] = scope
	data["Priorities"] = model.PriorityLevels
	data["ExportQuery"] = url.Values{"q": {filter.Term}, "priority": {filter.Priority}}.Encode()
	h.render(w, status, "families.html", data)
}

func (h *ConsoleHandler) serverFilter(ctx context.Context, filter console.FamilyFilter) ([]model.Family, bool) {
	var (
		res []model.Family
		err error
	)
	switch {
	case filter.Term != "":
		res, err = h.src.Families.Search(ctx, filter.Term)
		if err == nil {
			res = console.FilterFamilies(res, console.FamilyFilter{Priority: filter.Priority})
		}
	case filter.Priority != console.AllPriorities:
		level, perr := model.ParsePriorityLevel(filter.Priority)
		if perr != nil {
			return nil, false
		}
		res, err = h.src.Families.ByPriority(ctx, level)
	default:
		return nil, false
	}
	if err != nil {
		h.logger.Warn("server-side family filter failed, filtering locally", "error", err)
		return nil, false
	}
	return res, true
}

// ExportCSV downloads the filtered family list.
func (h *ConsoleHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	all, _, err := h.loadFamilies(ctx)
	if err != nil {
		h.logger.Error("failed to load families for export", "error", err)
		h.renderError(w, r, statusFor(err), "Impossible d'exporter les familles", err)
		return
	}
	visible := console.FilterFamilies(all, familyFilterFrom(r.URL.Query()))

	var buf bytes.Buffer
	if err := console.WriteFamiliesCSV(&buf, visible); err != nil {
		h.logger.Error("failed to write csv", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", console.ExportFilename(h.now())))
	buf.WriteTo(w)
}

// loadFamily fetches one family for a page. It answers the request itself
// and returns nil when the family cannot be shown.
func (h *ConsoleHandler) loadFamily(w http.ResponseWriter, r *http.Request) (*model.Family, bool) {
	ctx := r.Context()
	id := r.PathValue("id")
	f, demo, err := read(h, ctx, "family", id, func(s *source.Source) (*model.Family, error) {
		return s.Families.Get(ctx, id)
	})
	if err != nil {
		h.logger.Error("failed to load family", "id", id, "error", err)
		h.renderError(w, r, statusFor(err), "Impossible de charger la famille", err)
		return nil, false
	}
	if f == nil {
		h.renderError(w, r, http.StatusNotFound, "Famille introuvable", nil)
		return nil, false
	}
	return f, demo
}

func (h *ConsoleHandler) FamilyDetail(w http.ResponseWriter, r *http.Request) {
	f, demo := h.loadFamily(w, r)
	if f == nil {
		return
	}
	data := h.page(r, f.HeadOfFamily)
	data["Demo"] = demo
	data["Family"] = f
	h.render(w, http.StatusOK, "family_detail.html", data)
}

// FamilySheet serves the printable family sheet.
func (h *ConsoleHandler) FamilySheet(w http.ResponseWriter, r *http.Request) {
	f, _ := h.loadFamily(w, r)
	if f == nil {
		return
	}
	pdf, err := report.FamilySheet(f, h.now())
	if err != nil {
		h.logger.Error("failed to render family sheet", "id", f.ID, "error", err)
		http.Error(w, "failed to render family sheet", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "famille_"+f.Reference+".pdf"))
	w.Write(pdf)
}

// aidTypeOptions lists the active aid types plus any inactive ones already
// selected, so saving the form keeps them.
func (h *ConsoleHandler) aidTypeOptions(ctx context.Context, selected []string) []model.AidType {
	types, _, err := read(h, ctx, "aid_type", "", func(s *source.Source) ([]model.AidType, error) {
		return s.AidTypes.Active(ctx)
	})
	if err != nil {
		h.logger.Warn("failed to load aid types", "error", err)
		return nil
	}
	missing := slices.DeleteFunc(slices.Clone(selected), func(id string) bool {
		return slices.ContainsFunc(types, func(a model.AidType) bool { return a.ID == id })
	})
	if len(missing) == 0 {
		return types
	}
	all, _, err := read(h, ctx, "aid_type", "", func(s *source.Source) ([]model.AidType, error) {
		return s.AidTypes.List(ctx)
	})
	if err != nil {
		h.logger.Warn("failed to load inactive aid types", "error", err)
		return types
	}
	for _, a := range all {
		if slices.Contains(missing, a.ID) {
			types = append(types, a)
		}
	}
	return types
}

func (h *ConsoleHandler) renderFamilyForm(w http.ResponseWriter, r *http.Request, status int, id string, form console.FamilyForm, errs console.FieldErrors, msg string) {
	title := "Nouvelle famille"
	action := "/families"
	if id != "" {
		title = "Modifier la famille"
		action = "/families/" + url.PathEscape(id) + "/edit"
	}
	data := h.page(r, title)
	data["ID"] = id
	data["IsEdit"] = id != ""
	data["Action"] = action
	data["Form"] = form
	data["Errors"] = errs
	data["Error"] = msg
	data["Priorities"] = model.PriorityLevels
	data["AidTypes"] = h.aidTypeOptions(r.Context(), form.AidTypeIDs)
	h.render(w, status, "family_form.html", data)
}

func (h *ConsoleHandler) FamilyNew(w http.ResponseWriter, r *http.Request) {
	h.renderFamilyForm(w, r, http.StatusOK, "", console.NewFamilyForm(), console.FieldErrors{}, "")
}

func (h *ConsoleHandler) FamilyEdit(w http.ResponseWriter, r *http.Request) {
	f, _ := h.loadFamily(w, r)
	if f == nil {
		return
	}
	h.renderFamilyForm(w, r, http.StatusOK, r.PathValue("id"), console.FamilyFormFrom(f), console.FieldErrors{}, "")
}

// FamilySave creates a family, or updates one when the route carries an id.
// On success a confirmation page moves on to the detail page after the
// configured delay.
func (h *ConsoleHandler) FamilySave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	form := console.FamilyFormFromValues(r.PostForm)
	if errs := console.ValidateFamilyForm(form); len(errs) > 0 {
		h.renderFamilyForm(w, r, http.StatusUnprocessableEntity, id, form, errs, "Veuillez corriger les erreurs dans le formulaire.")
		return
	}

	var (
		saved *model.Family
		err   error
		msg   string
	)
	if id != "" {
		saved, err = h.src.Families.Update(r.Context(), id, form.UpdateRequest())
		msg = "Famille mise à jour avec succès!"
	} else {
		saved, err = h.createFamily(r.Context(), form)
		msg = "Famille créée avec succès!"
	}
	if err != nil {
		failure := "Erreur lors de la création de la famille"
		if id != "" {
			failure = "Erreur lors de la mise à jour de la famille"
		}
		h.logger.Error("failed to save family", "id", id, "error", err)
		h.renderFamilyForm(w, r, statusFor(err), id, form, console.FieldErrors{}, failure)
		return
	}

	h.renderSaved(w, r, msg, "/families/"+url.PathEscape(saved.ID))
}

// createFamily generates the reference on the console side, drawing a new
// one if the API reports it taken.
func (h *ConsoleHandler) createFamily(ctx context.Context, form console.FamilyForm) (*model.Family, error) {
	var err error
	for range referenceAttempts {
		ref := model.GenerateReference(h.now(), rand.IntN(1000))
		var f *model.Family
		f, err = h.src.Families.Create(ctx, form.CreateRequest(ref))
		if apiclient.StatusCode(err) != http.StatusConflict {
			return f, err
		}
	}
	return nil, err
}

func (h *ConsoleHandler) renderSaved(w http.ResponseWriter, r *http.Request, msg, next string) {
	data := h.page(r, "Enregistré")
	data["Message"] = msg
	data["Next"] = next
	data["Delay"] = redirectSeconds(h.redirectDelay)
	h.render(w, http.StatusOK, "saved.html", data)
}

// redirectSeconds rounds up so a sub-second delay still waits.
func redirectSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func (h *ConsoleHandler) FamilyDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	f, demo := h.loadFamily(w, r)
	if f == nil {
		return
	}
	data := h.page(r, "Supprimer la famille")
	data["Demo"] = demo
	data["Message"] = fmt.Sprintf("Êtes-vous sûr de vouloir supprimer définitivement la famille \"%s\" ?\nCette action est irréversible.", f.HeadOfFamily)
	data["Action"] = "/families/" + url.PathEscape(f.ID) + "/delete"
	data["Cancel"] = "/families/" + url.PathEscape(f.ID)
	data["Name"] = f.HeadOfFamily
	h.render(w, http.StatusOK, "confirm_delete.html", data)
}

// FamilyDelete only proceeds with confirm=yes; anything else goes back to
// the family.
func (h *ConsoleHandler) FamilyDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil || r.PostFormValue("confirm") != "yes" {
		http.Redirect(w, r, "/families/"+url.PathEscape(id), http.StatusSeeOther)
		return
	}
	if err := h.src.Families.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete family", "id", id, "error", err)
		h.renderError(w, r, statusFor(err), "Erreur lors de la suppression de la famille", err)
		return
	}
	h.logger.Info("family deleted", "id", id)
	name := r.PostFormValue("name")
	if name == "" {
		name = id
	}
	http.Redirect(w, r, "/families?"+url.Values{"deleted": {name}, "removed": {id}}.Encode(), http.StatusSeeOther)
}
