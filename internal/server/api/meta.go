package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
)

type vocabularyEntry struct {
	Token    string `json:"token"`
	CloseTab bool   `json:"close_tab"`
}

type vocabularyResponse struct {
	Tokens []vocabularyEntry `json:"tokens"`
}

// VocabularyHandler serves GET /api/vocabulary.
func VocabularyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		response := vocabularyResponse{
			Tokens: make([]vocabularyEntry, 0, len(gesture.Vocabulary)),
		}
		for _, token := range gesture.Vocabulary {
			response.Tokens = append(response.Tokens, vocabularyEntry{
				Token:    token,
				CloseTab: gesture.IsCloseTab(token),
			})
		}
		writeJSON(w, http.StatusOK, response)
	})
}

// ConfigHandler serves GET /api/config with the engine's tunables.
func ConfigHandler(cfg gesture.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	})
}

type enabledBody struct {
	Enabled *bool `json:"enabled"`
}

// EnabledHandler serves GET and PUT /api/enabled, the dispatch toggle.
func EnabledHandler(a *app.App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
		case http.MethodPut:
			var req enabledBody
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid JSON")
				return
			}
			if req.Enabled == nil {
				writeError(w, http.StatusBadRequest, "enabled is required")
				return
			}
			a.SetEnabled(*req.Enabled)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		enabled := a.IsEnabled()
		writeJSON(w, http.StatusOK, enabledBody{Enabled: &enabled})
	})
}
