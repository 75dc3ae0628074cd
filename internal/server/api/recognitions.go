package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/trail"
)

// History page sizes for GET /api/recognitions.
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// RecognitionHandler serves the recognition history and trail images.
type RecognitionHandler struct {
	store     *store.Store
	trailSize int
}

// NewRecognitionHandler creates a new RecognitionHandler. trailSize is the
// edge length of rendered trail images.
func NewRecognitionHandler(s *store.Store, trailSize int) *RecognitionHandler {
	return &RecognitionHandler{store: s, trailSize: trailSize}
}

// ServeHTTP implements the http.Handler interface.
func (h *RecognitionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/recognitions, /api/recognitions/{id},
	// /api/recognitions/{id}/trail.png
	path := strings.TrimPrefix(r.URL.Path, "/api/recognitions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodDelete:
			h.deleteAll(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	parts := strings.Split(path, "/")
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch {
	case len(parts) == 1:
		h.get(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "trail.png":
		h.trail(w, r, parts[0])
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type recognitionSummary struct {
	ID         string  `json:"id"`
	Token      string  `json:"token"`
	Similarity float64 `json:"similarity"`
	Recognized bool    `json:"recognized"`
	Reason     string  `json:"reason,omitempty"`
	PointCount int     `json:"point_count"`
	CreatedAt  string  `json:"created_at"`
}

type recognitionResponse struct {
	recognitionSummary
	Points      []gesture.Point `json:"points"`
	Simplified  []gesture.Point `json:"simplified"`
	Diagnostics json.RawMessage `json:"diagnostics"`
}

type listRecognitionsResponse struct {
	Recognitions []recognitionSummary `json:"recognitions"`
}

func toSummary(rec *store.Recognition) recognitionSummary {
	return recognitionSummary{
		ID:         rec.ID,
		Token:      rec.Token,
		Similarity: rec.Similarity,
		Recognized: rec.Recognized,
		Reason:     rec.Reason,
		PointCount: len(rec.Points),
		CreatedAt:  rec.CreatedAt.Format(timeFormat),
	}
}

// list handles GET /api/recognitions?limit=N, newest first.
func (h *RecognitionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	recs, err := h.store.Recognitions().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list recognitions")
		return
	}

	response := listRecognitionsResponse{
		Recognitions: make([]recognitionSummary, 0, len(recs)),
	}
	for _, rec := range recs {
		response.Recognitions = append(response.Recognitions, toSummary(rec))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/recognitions/{id} with points and diagnostics.
func (h *RecognitionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	rec, ok := h.load(w, id)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, recognitionResponse{
		recognitionSummary: toSummary(rec),
		Points:             rec.Points,
		Simplified:         rec.Simplified,
		Diagnostics:        rec.Diagnostics,
	})
}

// trail handles GET /api/recognitions/{id}/trail.png.
func (h *RecognitionHandler) trail(w http.ResponseWriter, r *http.Request, id string) {
	rec, ok := h.load(w, id)
	if !ok {
		return
	}

	img, err := trail.Render(rec.Points, rec.Simplified, h.trailSize)
	if err != nil {
		if errors.Is(err, trail.ErrEmpty) {
			writeError(w, http.StatusNotFound, "Recognition has no trail")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to render trail")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

// deleteAll handles DELETE /api/recognitions and clears the history.
func (h *RecognitionHandler) deleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Recognitions().DeleteAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear recognitions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (h *RecognitionHandler) load(w http.ResponseWriter, id string) (*store.Recognition, bool) {
	rec, err := h.store.Recognitions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recognition not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get recognition")
		return nil, false
	}
	return rec, true
}
