// Package web serves the server-rendered console pages. Pages read and
// write through a source.Source and never touch the database.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/omnia-aid/omnia/internal/apiclient"
	"github.com/omnia-aid/omnia/internal/auth"
	"github.com/omnia-aid/omnia/internal/console"
	"github.com/omnia-aid/omnia/internal/dashboard"
	"github.com/omnia-aid/omnia/internal/model"
	"github.com/omnia-aid/omnia/internal/source"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages are parsed one by one on top of the layout so each can define its
// own "content" block.
var pages = []string{
	"login.html",
	"register.html",
	"dashboard.html",
	"families.html",
	"family_detail.html",
	"family_form.html",
	"saved.html",
	"confirm_delete.html",
	"users.html",
	"user_detail.html",
	"user_form.html",
	"error.html",
}

type Options struct {
	Source *source.Source
	// Fallback, when set, replaces a failing remote read. Pages served
	// from it are flagged as demonstration data.
	Fallback      *source.Source
	Tokens        *auth.Tokens
	Renderer      dashboard.Renderer
	RedirectDelay time.Duration
	Logger        *slog.Logger
	Now           func() time.Time
}

type ConsoleHandler struct {
	src           *source.Source
	fallback      *source.Source
	tokens        *auth.Tokens
	renderer      dashboard.Renderer
	redirectDelay time.Duration
	templates     map[string]*template.Template
	logger        *slog.Logger
	now           func() time.Time
}

func NewConsoleHandler(opts Options) (*ConsoleHandler, error) {
	h := &ConsoleHandler{
		src:           opts.Source,
		fallback:      opts.Fallback,
		tokens:        opts.Tokens,
		renderer:      opts.Renderer,
		redirectDelay: opts.RedirectDelay,
		logger:        opts.Logger,
		now:           opts.Now,
	}
	if h.src == nil {
		return nil, errors.New("web: a data source is required")
	}
	if h.renderer == nil {
		h.renderer = dashboard.ChartJS{}
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.now == nil {
		h.now = time.Now
	}

	h.templates = make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(h.funcs()).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		h.templates[page] = tmpl
	}
	return h, nil
}

func (h *ConsoleHandler) funcs() template.FuncMap {
	return template.FuncMap{
		"priority":        console.PriorityDisplay,
		"familyStatus":    func(f any) console.Status { return console.FamilyStatus(asFamily(f), h.now()) },
		"locationTooltip": func(f any) string { return console.LocationTooltip(asFamily(f)) },
		"mapsURL":         func(f any) string { return console.MapsURL(asFamily(f)) },
		"userStatus": func(u any) console.Status {
			st, _ := console.UserStatus(asUser(u))
			return st
		},
		"userToggle": func(u any) string {
			_, label := console.UserStatus(asUser(u))
			return label
		},
		"roleBadge":       console.RoleBadge,
		"initials":        func(u any) string { return console.Initials(asUser(u)) },
		"formatDate":      console.FormatDate,
		"formatDateShort": console.FormatDateShort,
		"formatDateTime":  console.FormatDateTime,
		"fieldError": func(errs console.FieldErrors, field string) string {
			return errs.Message(field)
		},
		"hasError": func(errs console.FieldErrors, field string) bool {
			return errs.Has(field)
		},
		"chartConfig": func(config []byte) template.JS {
			if len(config) == 0 {
				return "null"
			}
			return template.JS(config)
		},
		"amount": dashboard.FormatAmount,
	}
}

func asFamily(v any) *model.Family {
	switch f := v.(type) {
	case *model.Family:
		return f
	case model.Family:
		return &f
	}
	return nil
}

func asUser(v any) *model.User {
	switch u := v.(type) {
	case *model.User:
		return u
	case model.User:
		return &u
	}
	return nil
}

// page starts the template data shared by every page.
func (h *ConsoleHandler) page(r *http.Request, title string) map[string]any {
	data := map[string]any{
		"Title":  title + " — OMNIA",
		"Demo":   h.src.IsFixture(),
		"Errors": console.FieldErrors{},
	}
	if ac, ok := auth.FromContext(r.Context()); ok {
		data["Auth"] = ac
	}
	return data
}

// render executes a page into a buffer first so a template failure never
// leaves a half-written response.
func (h *ConsoleHandler) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := h.templates[name]
	if !ok {
		h.logger.Error("unknown template", "name", name)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("template error", "name", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderError shows a banner page. The message is the server's text when
// there is one.
func (h *ConsoleHandler) renderError(w http.ResponseWriter, r *http.Request, status int, fallbackMsg string, err error) {
	data := h.page(r, "Erreur")
	data["Error"] = errorText(err, fallbackMsg)
	h.render(w, status, "error.html", data)
}

func errorText(err error, fallbackMsg string) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallbackMsg
}

// statusFor maps a source failure onto the page status.
func statusFor(err error) int {
	switch code := apiclient.StatusCode(err); {
	case code == http.StatusNotFound:
		return http.StatusNotFound
	case code >= 400 && code < 500:
		return code
	default:
		return http.StatusBadGateway
	}
}

// shouldFallback reports whether a failed read may be replaced by fixture
// data: the API was unreachable or failed on its side.
func shouldFallback(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	code := apiclient.StatusCode(err)
	return code == 0 || code >= 500
}

// read runs fn against the configured source and, if allowed, the fallback.
// The boolean is true when the result is demonstration data.
func read[T any](h *ConsoleHandler, ctx context.Context, entity, id string, fn func(*source.Source) (T, error)) (T, bool, error) {
	v, err := fn(h.src)
	if err == nil {
		return v, h.src.IsFixture(), nil
	}
	if h.fallback == nil || !shouldFallback(ctx, err) {
		return v, false, err
	}
	h.logger.Warn("substituting fixture data", "entity", entity, "id", id, "error", err)
	fv, ferr := fn(h.fallback)
	if ferr != nil {
		return v, false, err
	}
	return fv, true, nil
}
