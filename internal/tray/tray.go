// Package tray puts mudra in the system tray.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the menu bar item. It mirrors the recognizer's enabled flag and
// shows the last recognized gesture.
type Tray struct {
	onToggle    func(enabled bool)
	onOpenDebug func()
	onQuit      func()
	enabled     bool
	mu          sync.RWMutex

	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a Tray reflecting the given enabled state.
func New(enabled bool) *Tray {
	return &Tray{
		enabled: enabled,
	}
}

// OnToggle sets the callback run when recognition is switched on or off.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpenDebug sets the callback run when the debug page item is clicked.
func (t *Tray) OnOpenDebug(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenDebug = fn
}

// OnQuit sets the callback run before the tray exits.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray. It blocks until Quit is clicked.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra mouse gestures")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture recognition")
	systray.AddSeparator()
	t.menuLastGesture = systray.AddMenuItem(lastGestureTitle("", 0), "Last recognized gesture")
	t.menuLastGesture.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuDebug := systray.AddMenuItem("Open Debug Page...", "Show recent recognitions in the browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuDebug.ClickedCh:
				t.handleOpenDebug()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	callback := t.onToggle
	t.mu.Unlock()

	// Call outside the lock; the callback may call back into the tray.
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleOpenDebug() {
	t.mu.RLock()
	callback := t.onOpenDebug
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastGesture updates the last gesture item. An empty token means the
// last path was rejected.
func (t *Tray) SetLastGesture(token string, similarity float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastGestureTitle(token, similarity))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func lastGestureTitle(token string, similarity float64) string {
	if token == "" {
		return "Last: none"
	}
	return fmt.Sprintf("Last: %s (%.0f%%)", token, similarity*100)
}

// Quit stops the tray, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}
