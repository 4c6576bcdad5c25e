package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/needlesslygrim/gondolin/internal/store"
)

// newTestServer builds a router over a fresh store seeded with the given
// records, returning both.
func newTestServer(t *testing.T, records ...store.Record) (http.Handler, *store.Store) {
	t.Helper()

	s, err := store.Init(filepath.Join(t.TempDir(), "gondolin.db"))
	if err != nil {
		t.Fatalf("Init store: %v", err)
	}
	s.Append(records)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(&Dependencies{Store: s, Logger: logger}), s
}

func doRequest(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeRecords(t *testing.T, w *httptest.ResponseRecorder) []recordJSON {
	t.Helper()
	var records []recordJSON
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return records
}

func TestQuery_AllRecords(t *testing.T) {
	h, _ := newTestServer(t,
		store.Record{Name: "github", Username: "a", Password: "p"},
		store.Record{Name: "gitlab", Username: "b", Password: "q"},
	)

	w := doRequest(t, h, http.MethodGet, "/api/v1/query", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", ct)
	}
	if got := decodeRecords(t, w); len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}

func TestQuery_FuzzyFilter(t *testing.T) {
	h, _ := newTestServer(t,
		store.Record{Name: "github", Username: "a", Password: "p"},
		store.Record{Name: "bitbucket", Username: "b", Password: "q"},
	)

	w := doRequest(t, h, http.MethodGet, "/api/v1/query?query=gh", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	got := decodeRecords(t, w)
	if len(got) != 1 || got[0].Name != "github" {
		t.Fatalf("query=gh returned %v, want just github", got)
	}
}

func TestQuery_EmptyStoreIsEmptyArray(t *testing.T) {
	h, _ := newTestServer(t)

	w := doRequest(t, h, http.MethodGet, "/api/v1/query?query=zz", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Fatalf("body = %q, want an empty JSON array", body)
	}
}

func TestNew_AppendsRecords(t *testing.T) {
	h, s := newTestServer(t)

	body := `[{"name":"github","username":"a","password":"p"},{"name":"gitlab","username":"b","password":"q"}]`
	w := doRequest(t, h, http.MethodPost, "/api/v1/new", "application/json", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if s.Len() != 2 {
		t.Fatalf("store has %d records, want 2", s.Len())
	}
}

func TestNew_AcceptsCharsetParameter(t *testing.T) {
	h, s := newTestServer(t)

	body := `[{"name":"github","username":"a","password":"p"}]`
	w := doRequest(t, h, http.MethodPost, "/api/v1/new", "application/json; charset=utf-8", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if s.Len() != 1 {
		t.Fatalf("store has %d records, want 1", s.Len())
	}
}

func TestNew_WrongContentType(t *testing.T) {
	h, s := newTestServer(t)

	body := `[{"name":"github","username":"a","password":"p"}]`
	w := doRequest(t, h, http.MethodPost, "/api/v1/new", "text/plain", body)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", w.Code)
	}
	if s.Len() != 0 {
		t.Fatal("store must be unchanged after a rejected request")
	}
}

func TestNew_MissingContentType(t *testing.T) {
	h, s := newTestServer(t)

	w := doRequest(t, h, http.MethodPost, "/api/v1/new", "", `[]`)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", w.Code)
	}
	if s.Len() != 0 {
		t.Fatal("store must be unchanged after a rejected request")
	}
}

func TestNew_MalformedJSON(t *testing.T) {
	h, s := newTestServer(t)

	w := doRequest(t, h, http.MethodPost, "/api/v1/new", "application/json", `{"not":"an array"`)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", w.Code)
	}
	if s.Len() != 0 {
		t.Fatal("store must be unchanged after a rejected request")
	}
}

func TestRemove_Lifecycle(t *testing.T) {
	h, s := newTestServer(t, store.Record{Name: "github", Username: "a", Password: "p"})

	entries := s.Query("")
	if len(entries) != 1 {
		t.Fatalf("seed record missing")
	}
	id := entries[0].ID.String()

	w := doRequest(t, h, http.MethodDelete, "/api/v1/remove?id="+id, "", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("first delete status = %d, want 204", w.Code)
	}
	if s.Len() != 0 {
		t.Fatal("record should be gone after delete")
	}

	// Repeating the delete is legal; the outcome is a 404.
	w = doRequest(t, h, http.MethodDelete, "/api/v1/remove?id="+id, "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}

func TestRemove_MissingID(t *testing.T) {
	h, _ := newTestServer(t, store.Record{Name: "github", Username: "a", Password: "p"})

	w := doRequest(t, h, http.MethodDelete, "/api/v1/remove", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRemove_MalformedID(t *testing.T) {
	h, _ := newTestServer(t)

	w := doRequest(t, h, http.MethodDelete, "/api/v1/remove?id=not-a-uuid", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSync_PersistsState(t *testing.T) {
	h, s := newTestServer(t, store.Record{Name: "github", Username: "a", Password: "p"})

	w := doRequest(t, h, http.MethodGet, "/api/v1/sync", "", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	reopened, err := store.Open(s.Path())
	if err != nil {
		t.Fatalf("Open after sync: %v", err)
	}
	if reopened.Len() != 1 {
		t.Fatalf("expected 1 persisted record, got %d", reopened.Len())
	}
}

func TestRouter_SerializesStoreRequests(t *testing.T) {
	h, s := newTestServer(t)

	// The store does no locking of its own; the router must admit one
	// store-touching request at a time. Concurrent appends losing records
	// (or racing on the map) means that guarantee is gone.
	const writers = 32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/new",
				strings.NewReader(`[{"name":"github","username":"a","password":"p"}]`))
			req.Header.Set("Content-Type", "application/json")
			h.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	if s.Len() != writers {
		t.Fatalf("store has %d records after %d concurrent appends", s.Len(), writers)
	}
}

func TestRouter_UnknownPathIs404(t *testing.T) {
	h, _ := newTestServer(t)

	w := doRequest(t, h, http.MethodGet, "/api/v1/nope", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRouter_WrongMethodIs404(t *testing.T) {
	h, _ := newTestServer(t)

	w := doRequest(t, h, http.MethodPut, "/api/v1/new", "application/json", `[]`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRouter_ServesQueryPage(t *testing.T) {
	h, _ := newTestServer(t)

	w := doRequest(t, h, http.MethodGet, "/", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Gondolin") {
		t.Fatal("index page should mention Gondolin")
	}
}
