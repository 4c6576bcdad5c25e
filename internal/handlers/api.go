package handlers

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/needlesslygrim/gondolin/internal/logging"
	"github.com/needlesslygrim/gondolin/internal/metrics"
	"github.com/needlesslygrim/gondolin/internal/store"
)

// maxBodySize bounds POST bodies; a credential import has no business being
// larger than this.
const maxBodySize = 1 << 20

// API translates HTTP requests into record store calls. Request processing
// is serialized by the router, so no locking happens here.
type API struct {
	store *store.Store
}

// NewAPI creates a new API handler over the given store.
func NewAPI(s *store.Store) *API {
	return &API{store: s}
}

// recordJSON is the wire shape of one query result.
type recordJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Query handles GET /api/v1/query. The ranked results go out as a JSON
// array; an empty result is an empty array, not null.
func (h *API) Query(w http.ResponseWriter, r *http.Request) {
	entries := h.store.Query(r.URL.Query().Get("query"))

	payload := make([]recordJSON, len(entries))
	for i, e := range entries {
		payload[i] = recordJSON{
			ID:       e.ID.String(),
			Name:     e.Record.Name,
			Username: e.Record.Username,
			Password: e.Record.Password,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logging.Logger(r.Context()).Error("encode query results", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// New handles POST /api/v1/new: bulk-append records from a JSON array body.
// Anything short of a well-formed application/json body is a 415; the store
// is left untouched in that case.
func (h *API) New(w http.ResponseWriter, r *http.Request) {
	log := logging.Logger(r.Context())

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		log.Warn("new records rejected: bad content type", "content_type", r.Header.Get("Content-Type"))
		http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		log.Warn("new records rejected: unreadable body", "error", err)
		http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
		return
	}
	if !utf8.Valid(body) {
		log.Warn("new records rejected: body is not valid UTF-8")
		http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
		return
	}

	var recs []store.Record
	if err := json.Unmarshal(body, &recs); err != nil {
		log.Warn("new records rejected: malformed JSON", "error", err)
		http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
		return
	}

	h.store.Append(recs)
	metrics.RecordsTotal.Set(float64(h.store.Len()))
	log.Info("records appended", "count", len(recs), "total", h.store.Len())
	w.WriteHeader(http.StatusCreated)
}

// Remove handles DELETE /api/v1/remove. A missing, malformed, or unknown id
// is uniformly a 404; repeating a successful delete therefore yields 404,
// which is the intended outcome-level idempotency.
func (h *API) Remove(w http.ResponseWriter, r *http.Request) {
	log := logging.Logger(r.Context())

	raw := r.URL.Query().Get("id")
	if raw == "" {
		log.Warn("remove rejected: no id supplied")
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("remove rejected: malformed id", "id", raw)
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	rec, ok := h.store.Remove(id)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	metrics.RecordsTotal.Set(float64(h.store.Len()))
	log.Info("record removed", "id", id, "name", rec.Name)
	w.WriteHeader(http.StatusNoContent)
}

// SyncStore handles GET /api/v1/sync: force a persist of current state.
func (h *API) SyncStore(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Sync(); err != nil {
		metrics.StoreSyncsTotal.WithLabelValues("error").Inc()
		logging.Logger(r.Context()).Error("sync store", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	metrics.StoreSyncsTotal.WithLabelValues("ok").Inc()
	w.WriteHeader(http.StatusNoContent)
}
