package main

import (
	"fmt"
	"strings"
)

// Chord is a key pressed together with zero or more modifiers. The
// primary modifier is "cmd", which becomes Command on macOS and Control
// elsewhere.
type Chord struct {
	Key       string
	Modifiers []string
}

func (c Chord) String() string {
	return strings.Join(append(append([]string(nil), c.Modifiers...), c.Key), "+")
}

var actionChords = map[string]Chord{
	"go-back":             {Key: "[", Modifiers: []string{"cmd"}},
	"forward":             {Key: "]", Modifiers: []string{"cmd"}},
	"scroll-up":           {Key: "pageup"},
	"scroll-down":         {Key: "pagedown"},
	"close-tab":           {Key: "w", Modifiers: []string{"cmd"}},
	"reopen-closed-tab":   {Key: "t", Modifiers: []string{"cmd", "shift"}},
	"open-new-tab":        {Key: "t", Modifiers: []string{"cmd"}},
	"refresh":             {Key: "r", Modifiers: []string{"cmd"}},
	"force-refresh":       {Key: "r", Modifiers: []string{"cmd", "shift"}},
	"stop-loading":        {Key: "escape"},
	"switch-to-left-tab":  {Key: "pageup", Modifiers: []string{"ctrl"}},
	"switch-to-right-tab": {Key: "pagedown", Modifiers: []string{"ctrl"}},
	"scroll-to-top":       {Key: "home"},
	"scroll-to-bottom":    {Key: "end"},
}

// macKeyCodes holds the keys AppleScript cannot type with keystroke.
var macKeyCodes = map[string]int{
	"pageup":   116,
	"pagedown": 121,
	"home":     115,
	"end":      119,
	"escape":   53,
	"left":     123,
	"right":    124,
	"up":       126,
	"down":     125,
}

var macModifiers = map[string]string{
	"cmd":     "command down",
	"command": "command down",
	"alt":     "option down",
	"option":  "option down",
	"ctrl":    "control down",
	"control": "control down",
	"shift":   "shift down",
}

var xdotoolKeys = map[string]string{
	"pageup":   "Prior",
	"pagedown": "Next",
	"home":     "Home",
	"end":      "End",
	"escape":   "Escape",
	"left":     "Left",
	"right":    "Right",
	"up":       "Up",
	"down":     "Down",
	"[":        "bracketleft",
	"]":        "bracketright",
}

var xdotoolModifiers = map[string]string{
	"cmd":     "ctrl",
	"command": "super",
	"alt":     "alt",
	"option":  "alt",
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
}

// linuxOverrides replaces chords whose macOS form has no Linux equivalent.
var linuxOverrides = map[string]Chord{
	"go-back": {Key: "left", Modifiers: []string{"alt"}},
	"forward": {Key: "right", Modifiers: []string{"alt"}},
}

// resolveChord picks the chord for action on goos. An explicit key in p
// overrides the action's default chord.
func resolveChord(goos, action string, p Params) (Chord, error) {
	if p.Key != "" {
		return Chord{Key: strings.ToLower(p.Key), Modifiers: lower(p.Modifiers)}, nil
	}
	if action == "keystroke" {
		return Chord{}, fmt.Errorf("key is required")
	}
	chord, ok := actionChords[action]
	if !ok {
		return Chord{}, fmt.Errorf("unknown action: %s", action)
	}
	if o, ok := linuxOverrides[action]; ok && goos == "linux" {
		chord = o
	}
	return chord, nil
}

// buildCommand renders chord as an argv for goos.
func buildCommand(goos string, chord Chord) ([]string, error) {
	switch goos {
	case "darwin":
		return []string{"osascript", "-e", appleScript(chord)}, nil
	case "linux":
		return []string{"xdotool", "key", "--clearmodifiers", xdotoolChord(chord)}, nil
	}
	return nil, fmt.Errorf("unsupported platform: %s", goos)
}

func appleScript(c Chord) string {
	var mods []string
	for _, m := range c.Modifiers {
		if am, ok := macModifiers[m]; ok {
			mods = append(mods, am)
		}
	}

	stroke := fmt.Sprintf(`keystroke "%s"`, c.Key)
	if code, ok := macKeyCodes[c.Key]; ok {
		stroke = fmt.Sprintf("key code %d", code)
	}
	if len(mods) > 0 {
		stroke += fmt.Sprintf(" using {%s}", strings.Join(mods, ", "))
	}
	return `tell application "System Events" to ` + stroke
}

func xdotoolChord(c Chord) string {
	var parts []string
	for _, m := range c.Modifiers {
		if xm, ok := xdotoolModifiers[m]; ok {
			parts = append(parts, xm)
		}
	}
	key := c.Key
	if xk, ok := xdotoolKeys[key]; ok {
		key = xk
	}
	return strings.Join(append(parts, key), "+")
}

func lower(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}
