package app

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/store"
)

// DefaultPlugin runs the default bindings.
const DefaultPlugin = "browser-keys"

// DefaultBindings maps gesture tokens to browser-keys actions.
var DefaultBindings = map[string]string{
	"left":            "go-back",
	"right":           "forward",
	"up":              "scroll-up",
	"down":            "scroll-down",
	"down then right": "close-tab",
	"left then up":    "reopen-closed-tab",
	"right then up":   "open-new-tab",
	"right then down": "refresh",
	"up then left":    "switch-to-left-tab",
	"up then right":   "switch-to-right-tab",
	"down then left":  "stop-loading",
	"left then down":  "force-refresh",
	"up then down":    "scroll-to-bottom",
	"down then up":    "scroll-to-top",
	"left then right": "close-tab",
	"right then left": "reopen-closed-tab",
}

// SeedBindings stores DefaultBindings the first time it runs against a
// store. Later calls do nothing, so deleted bindings stay deleted.
func (a *App) SeedBindings() (int, error) {
	s := a.config.Store
	if s == nil {
		return 0, nil
	}

	seeded, err := s.Settings().GetBool(seededKey, false)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed marker: %w", err)
	}
	if seeded {
		return 0, nil
	}

	created := 0
	for token, action := range DefaultBindings {
		existing, err := s.Bindings().GetByToken(token)
		if err != nil {
			return created, fmt.Errorf("failed to look up binding for %q: %w", token, err)
		}
		if existing != nil {
			continue
		}

		b := &store.Binding{
			ID:         uuid.New().String(),
			Token:      token,
			PluginName: DefaultPlugin,
			ActionName: action,
			Enabled:    true,
		}
		if err := s.Bindings().Create(b); err != nil {
			return created, fmt.Errorf("failed to seed binding for %q: %w", token, err)
		}
		created++
	}

	if err := s.Settings().SetBool(seededKey, true); err != nil {
		return created, fmt.Errorf("failed to write seed marker: %w", err)
	}
	log.Printf("Seeded %d default bindings", created)
	return created, nil
}
