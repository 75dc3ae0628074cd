// Package app provides the main application logic for the Mudra gesture
// service: classification, history recording and action dispatch.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

const (
	// DefaultPluginTimeout bounds a single plugin call.
	DefaultPluginTimeout = 5 * time.Second
	// DefaultHistoryLimit is the number of recognitions kept in the store.
	DefaultHistoryLimit = 500
)

// Settings keys persisted in the store.
const (
	enabledKey = "enabled"
	seededKey  = "bindings_seeded"
)

// Config holds configuration options for the application.
type Config struct {
	Store         *store.Store
	PluginDir     string
	Engine        gesture.Config
	PluginTimeout time.Duration
	HistoryLimit  int
}

// Dispatch describes the plugin call made for a recognized gesture.
type Dispatch struct {
	BindingID string `json:"binding_id"`
	Plugin    string `json:"plugin"`
	Action    string `json:"action"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// Event is the outcome of one classified path.
type Event struct {
	ID          string               `json:"id,omitempty"`
	Token       string               `json:"token"`
	Similarity  float64              `json:"similarity"`
	Recognized  bool                 `json:"recognized"`
	Reason      string               `json:"reason,omitempty"`
	Dispatch    *Dispatch            `json:"dispatch,omitempty"`
	Diagnostics *gesture.Diagnostics `json:"-"`
}

// GestureCallback is called after every classified path.
type GestureCallback func(Event)

// App orchestrates recognition, history and action execution.
type App struct {
	config     Config
	recognizer *gesture.Recognizer
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	enabled    bool
	callbacks  []GestureCallback
	mu         sync.RWMutex
}

// New creates a new App. Dispatching starts enabled unless the store
// remembers it being switched off.
func New(config Config) (*App, error) {
	rec, err := gesture.NewRecognizer(config.Engine)
	if err != nil {
		return nil, err
	}
	if config.PluginTimeout <= 0 {
		config.PluginTimeout = DefaultPluginTimeout
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = DefaultHistoryLimit
	}

	a := &App{
		config:     config,
		recognizer: rec,
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(config.PluginTimeout),
		enabled:    true,
	}

	if config.Store != nil {
		enabled, err := config.Store.Settings().GetBool(enabledKey, true)
		if err != nil {
			return nil, fmt.Errorf("failed to load enabled setting: %w", err)
		}
		a.enabled = enabled
	}

	return a, nil
}

// SetEnabled enables or disables action dispatch. Paths are still
// classified and recorded while disabled.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if a.config.Store != nil {
		if err := a.config.Store.Settings().SetBool(enabledKey, enabled); err != nil {
			log.Printf("Failed to persist enabled setting: %v", err)
		}
	}
}

// IsEnabled returns whether action dispatch is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// RegisterGestureCallback adds a callback run after every classification.
func (a *App) RegisterGestureCallback(cb GestureCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callbacks = append(a.callbacks, cb)
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	if err := a.pluginMgr.Discover(); err != nil {
		return err
	}
	log.Printf("Discovered %d plugins in %s", len(a.pluginMgr.List()), a.pluginMgr.PluginDir())
	return nil
}

// Recognize classifies a complete path, records it and dispatches the
// bound action when the path is recognized.
func (a *App) Recognize(ctx context.Context, points []gesture.Point) (*Event, error) {
	result, diag := a.recognizer.Recognize(points)
	return a.handle(ctx, points, result, diag)
}

func (a *App) handle(ctx context.Context, points []gesture.Point, result gesture.MatchResult, diag *gesture.Diagnostics) (*Event, error) {
	ev := &Event{
		Token:       result.Token,
		Similarity:  result.Similarity,
		Recognized:  result.Recognized(),
		Reason:      string(diag.Reason),
		Diagnostics: diag,
	}

	if len(points) > 0 {
		id, err := a.record(points, ev)
		if err != nil {
			return nil, err
		}
		ev.ID = id
	}

	if ev.Recognized {
		log.Printf("Gesture recognized: %s (similarity: %.3f)", ev.Token, ev.Similarity)
		if a.IsEnabled() {
			ev.Dispatch = a.dispatch(ctx, result)
		}
	}

	a.mu.RLock()
	callbacks := append([]GestureCallback(nil), a.callbacks...)
	a.mu.RUnlock()
	for _, cb := range callbacks {
		cb(*ev)
	}

	return ev, nil
}

// record stores the path and its diagnostics, then trims the history.
func (a *App) record(points []gesture.Point, ev *Event) (string, error) {
	if a.config.Store == nil {
		return "", nil
	}

	diagJSON, err := json.Marshal(ev.Diagnostics)
	if err != nil {
		return "", fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	rec := &store.Recognition{
		ID:          uuid.New().String(),
		Token:       ev.Token,
		Similarity:  ev.Similarity,
		Recognized:  ev.Recognized,
		Reason:      ev.Reason,
		Points:      points,
		Simplified:  ev.Diagnostics.Simplified,
		Diagnostics: diagJSON,
	}
	if err := a.config.Store.Recognitions().Create(rec); err != nil {
		return "", fmt.Errorf("failed to record recognition: %w", err)
	}

	if n, err := a.config.Store.Recognitions().Prune(a.config.HistoryLimit); err != nil {
		log.Printf("Failed to prune recognition history: %v", err)
	} else if n > 0 {
		log.Printf("Pruned %d old recognitions", n)
	}

	return rec.ID, nil
}

// dispatch looks up the binding for result and runs its plugin action.
// It returns nil when nothing is bound or the binding is disabled.
func (a *App) dispatch(ctx context.Context, result gesture.MatchResult) *Dispatch {
	if a.config.Store == nil {
		return nil
	}

	binding, err := a.config.Store.Bindings().GetByToken(result.Token)
	if err != nil {
		log.Printf("Failed to look up binding for %q: %v", result.Token, err)
		return nil
	}
	if binding == nil || !binding.Enabled {
		return nil
	}

	d := &Dispatch{
		BindingID: binding.ID,
		Plugin:    binding.PluginName,
		Action:    binding.ActionName,
	}

	p, err := a.pluginMgr.Resolve(binding.PluginName, binding.ActionName)
	if err != nil {
		d.Error = err.Error()
		log.Printf("Cannot run %s/%s for %q: %v", d.Plugin, d.Action, result.Token, err)
		return d
	}

	resp, err := a.pluginExec.Execute(ctx, p, &plugin.Request{
		Action:     binding.ActionName,
		Gesture:    result.Token,
		Similarity: result.Similarity,
		Params:     binding.Params,
	})
	switch {
	case err != nil:
		d.Error = err.Error()
	case !resp.Success:
		d.Error = resp.Error
	default:
		d.Success = true
	}

	if d.Success {
		log.Printf("Action executed: %s/%s for %q", d.Plugin, d.Action, result.Token)
	} else {
		log.Printf("Action failed: %s/%s for %q: %s", d.Plugin, d.Action, result.Token, d.Error)
	}
	return d
}

// Recognizer returns the gesture recognizer.
func (a *App) Recognizer() *gesture.Recognizer {
	return a.recognizer
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Store returns the backing store, which may be nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}
