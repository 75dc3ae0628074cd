package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
)

// RecognizeHandler classifies complete paths posted by clients.
type RecognizeHandler struct {
	app *app.App
}

// NewRecognizeHandler creates a new RecognizeHandler.
func NewRecognizeHandler(a *app.App) *RecognizeHandler {
	return &RecognizeHandler{app: a}
}

type recognizeRequest struct {
	Points []gesture.Point `json:"points"`
}

// ServeHTTP handles POST /api/recognize.
func (h *RecognizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Points) == 0 {
		writeError(w, http.StatusBadRequest, "points is required")
		return
	}

	ev, err := h.app.Recognize(r.Context(), req.Points)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record recognition")
		return
	}

	writeJSON(w, http.StatusOK, ev)
}
