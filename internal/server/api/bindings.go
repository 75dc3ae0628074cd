package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// BindingHandler handles HTTP requests for binding resources.
type BindingHandler struct {
	store   *store.Store
	plugins *plugin.Manager
}

// NewBindingHandler creates a new BindingHandler. When plugins is not nil,
// bindings to a discovered plugin must name an action it declares.
func NewBindingHandler(s *store.Store, plugins *plugin.Manager) *BindingHandler {
	return &BindingHandler{store: s, plugins: plugins}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *BindingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/bindings or /api/bindings/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/bindings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createBindingRequest struct {
	Token      string          `json:"token"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Params     json.RawMessage `json:"params"`
}

type updateBindingRequest struct {
	Token      string          `json:"token"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Params     json.RawMessage `json:"params"`
	Enabled    *bool           `json:"enabled"`
}

type bindingResponse struct {
	ID         string          `json:"id"`
	Token      string          `json:"token"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Params     json.RawMessage `json:"params"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  string          `json:"created_at"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

func toBindingResponse(b *store.Binding) bindingResponse {
	params := b.Params
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	return bindingResponse{
		ID:         b.ID,
		Token:      b.Token,
		PluginName: b.PluginName,
		ActionName: b.ActionName,
		Params:     params,
		Enabled:    b.Enabled,
		CreatedAt:  b.CreatedAt.Format(timeFormat),
	}
}

// invalid checks the token against the vocabulary and the action against
// the plugin's manifest, if the plugin is installed. It returns a message
// for the client, or "" when b is acceptable.
func (h *BindingHandler) invalid(b *store.Binding) string {
	if !gesture.IsValid(b.Token) {
		return fmt.Sprintf("Unknown gesture token %q", b.Token)
	}
	if h.plugins == nil {
		return ""
	}
	if _, err := h.plugins.Resolve(b.PluginName, b.ActionName); errors.Is(err, plugin.ErrActionNotSupported) {
		return fmt.Sprintf("Plugin %s has no action %q", b.PluginName, b.ActionName)
	}
	return ""
}

// list handles GET /api/bindings and returns all bindings.
func (h *BindingHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	response := listBindingsResponse{
		Bindings: make([]bindingResponse, 0, len(bindings)),
	}
	for _, b := range bindings {
		response.Bindings = append(response.Bindings, toBindingResponse(b))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/bindings/{id} and returns a single binding.
func (h *BindingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	b, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	writeJSON(w, http.StatusOK, toBindingResponse(b))
}

// create handles POST /api/bindings and binds a token to a plugin action.
func (h *BindingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}
	if req.PluginName == "" {
		writeError(w, http.StatusBadRequest, "plugin_name is required")
		return
	}
	if req.ActionName == "" {
		writeError(w, http.StatusBadRequest, "action_name is required")
		return
	}

	b := &store.Binding{
		ID:         uuid.New().String(),
		Token:      req.Token,
		PluginName: req.PluginName,
		ActionName: req.ActionName,
		Params:     req.Params,
		Enabled:    true,
	}
	if msg := h.invalid(b); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Bindings().Create(b); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "Token is already bound")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}

	writeJSON(w, http.StatusCreated, toBindingResponse(b))
}

// update handles PUT /api/bindings/{id} and updates an existing binding.
func (h *BindingHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	b, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	var req updateBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Token != "" {
		b.Token = req.Token
	}
	if req.PluginName != "" {
		b.PluginName = req.PluginName
	}
	if req.ActionName != "" {
		b.ActionName = req.ActionName
	}
	if req.Params != nil {
		b.Params = req.Params
	}
	if req.Enabled != nil {
		b.Enabled = *req.Enabled
	}
	if msg := h.invalid(b); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Bindings().Update(b); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "Token is already bound")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update binding")
		return
	}

	writeJSON(w, http.StatusOK, toBindingResponse(b))
}

// delete handles DELETE /api/bindings/{id} and removes a binding.
func (h *BindingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Bindings().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
