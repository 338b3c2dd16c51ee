package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/omnia-aid/omnia/internal/auth"
	"github.com/omnia-aid/omnia/internal/database"
	"github.com/omnia-aid/omnia/internal/store"
)

type recordedEvent struct {
	entity, action, id string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) Publish(entity, action, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{entity, action, id})
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.entity+"_"+e.action)
	}
	return out
}

type testAPI struct {
	mux    *http.ServeMux
	events *fakePublisher
	tokens *auth.Tokens
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := &fakePublisher{}
	tokens := auth.NewTokens("test-secret", "omnia", time.Hour)

	fs := store.NewFamilyStore(db)
	us := store.NewUserStore(db)
	as := store.NewAidTypeStore(db)
	vs := store.NewVisitStore(db)

	mux := http.NewServeMux()
	Routes(mux, APIHandlers{
		Families:  NewFamilyHandler(fs, as, events, logger),
		Users:     NewUserHandler(us, events, logger),
		Auth:      NewAuthHandler(us, tokens, events, logger),
		AidTypes:  NewAidTypeHandler(as, events, logger),
		Visits:    NewVisitHandler(vs, fs, events, logger),
		Dashboard: NewDashboardHandler(fs, vs, logger),
	})
	return &testAPI{mux: mux, events: events, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}
