package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
)

const maxMessageSize = 4096

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Message types on the session socket.
const (
	msgPress   = "press"
	msgMove    = "move"
	msgRelease = "release"
	msgCancel  = "cancel"

	msgSession = "session"
	msgLive    = "live"
	msgResult  = "result"
	msgError   = "error"
)

type clientMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type serverMessage struct {
	Type       string        `json:"type"`
	ID         string        `json:"id,omitempty"`
	Token      string        `json:"token,omitempty"`
	Similarity float64       `json:"similarity,omitempty"`
	Recognized bool          `json:"recognized,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Dispatch   *app.Dispatch `json:"dispatch,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// SessionHandler streams pointer events over a WebSocket into a live
// recognition session. Each connection gets its own session; closing the
// connection discards the interaction in progress.
type SessionHandler struct {
	app *app.App
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(a *app.App) *SessionHandler {
	return &SessionHandler{app: a}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	sess := h.app.NewSession()
	defer sess.Cancel()

	if err := conn.WriteJSON(serverMessage{Type: msgSession, ID: sess.ID}); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("session %s closed: %v", sess.ID, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if conn.WriteJSON(serverMessage{Type: msgError, Error: "invalid message"}) != nil {
				return
			}
			continue
		}

		reply := h.handle(r, sess, msg)
		if reply == nil {
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

// handle applies one client message to the session and returns the reply,
// if any.
func (h *SessionHandler) handle(r *http.Request, sess *app.Session, msg clientMessage) *serverMessage {
	p := gesture.Point{X: msg.X, Y: msg.Y}

	switch msg.Type {
	case msgPress:
		sess.Press(p)
		return nil

	case msgMove:
		live := sess.Move(p)
		return &serverMessage{Type: msgLive, Token: live.Token, Similarity: live.Similarity}

	case msgRelease:
		ev, err := sess.Release(r.Context())
		if errors.Is(err, app.ErrNotPressed) {
			return &serverMessage{Type: msgError, Error: err.Error()}
		}
		if err != nil {
			log.Printf("session %s: %v", sess.ID, err)
			return &serverMessage{Type: msgError, Error: "failed to record recognition"}
		}
		return &serverMessage{
			Type:       msgResult,
			ID:         ev.ID,
			Token:      ev.Token,
			Similarity: ev.Similarity,
			Recognized: ev.Recognized,
			Reason:     ev.Reason,
			Dispatch:   ev.Dispatch,
		}

	case msgCancel:
		sess.Cancel()
		return nil
	}

	return &serverMessage{Type: msgError, Error: "unknown message type " + msg.Type}
}
