package app

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
)

// ErrNotPressed is returned when a session is released without a press.
var ErrNotPressed = errors.New("no press in progress")

// Session is one pointer's live stream of interactions. Like the path it
// wraps, a Session must be driven from a single goroutine.
type Session struct {
	ID   string
	app  *App
	path *gesture.Path
}

// NewSession starts a live session.
func (a *App) NewSession() *Session {
	return &Session{
		ID:   uuid.New().String(),
		app:  a,
		path: a.recognizer.NewPath(),
	}
}

// Press begins an interaction at p.
func (s *Session) Press(p gesture.Point) {
	s.path.Press(p)
}

// Move feeds a pointer sample and returns the live classification.
func (s *Session) Move(p gesture.Point) gesture.MatchResult {
	return s.path.Feed(p)
}

// Release ends the interaction and handles its final classification
// like App.Recognize.
func (s *Session) Release(ctx context.Context) (*Event, error) {
	if !s.path.Active() {
		return nil, ErrNotPressed
	}
	points := s.path.Points()
	result, diag := s.path.Finish()
	return s.app.handle(ctx, points, result, diag)
}

// Cancel discards the interaction in progress.
func (s *Session) Cancel() {
	s.path.Abort()
}

// Active reports whether an interaction is in progress.
func (s *Session) Active() bool {
	return s.path.Active()
}
