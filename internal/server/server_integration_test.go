package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/testdata"
)

func TestAPI_RecognitionWorkflow(t *testing.T) {
	srv := New(Config{App: newTestApp(t), TrailSize: 128})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Bind a gesture
	bindBody := `{"token": "down then right", "plugin_name": "browser-keys", "action_name": "close-tab"}`
	resp, err := client.Post(ts.URL+"/api/bindings", "application/json", bytes.NewBufferString(bindBody))
	if err != nil {
		t.Fatalf("POST /api/bindings error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/bindings status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	resp.Body.Close()

	// 2. Recognize a path
	body, _ := json.Marshal(map[string]any{"points": testdata.MustLoadPath("close-tab").Points})
	resp, err = client.Post(ts.URL+"/api/recognize", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/recognize error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/recognize status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result struct {
		ID         string  `json:"id"`
		Token      string  `json:"token"`
		Similarity float64 `json:"similarity"`
		Dispatch   *struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		} `json:"dispatch"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	resp.Body.Close()

	if result.Token != "down then right" {
		t.Errorf("token = %q, want 'down then right'", result.Token)
	}
	if result.Dispatch == nil || result.Dispatch.Success {
		t.Errorf("expected failed dispatch without installed plugin, got %+v", result.Dispatch)
	}

	// 3. History lists it
	resp, _ = client.Get(ts.URL + "/api/recognitions?limit=5")
	var listed struct {
		Recognitions []struct {
			ID    string `json:"id"`
			Token string `json:"token"`
		} `json:"recognitions"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Recognitions) != 1 || listed.Recognitions[0].ID != result.ID {
		t.Fatalf("recognitions = %+v, want the one just recorded", listed.Recognitions)
	}

	// 4. Trail renders
	resp, _ = client.Get(ts.URL + "/api/recognitions/" + result.ID + "/trail.png")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET trail status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("trail Content-Type = %s, want image/png", ct)
	}
	resp.Body.Close()

	// 5. Clear history
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/recognitions", nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	resp, _ = client.Get(ts.URL + "/api/recognitions/" + result.ID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestAPI_Config(t *testing.T) {
	ts := httptest.NewServer(New(Config{App: newTestApp(t)}))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/config")
	if err != nil {
		t.Fatalf("GET /api/config error = %v", err)
	}
	defer resp.Body.Close()

	var cfg gesture.Config
	json.NewDecoder(resp.Body).Decode(&cfg)
	if cfg != gesture.DefaultConfig() {
		t.Errorf("config = %+v, want defaults", cfg)
	}
}

func dialSession(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/session"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	var hello serverMessage
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("failed to read session message: %v", err)
	}
	if hello.Type != msgSession || hello.ID == "" {
		t.Fatalf("expected session message with ID, got %+v", hello)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, p gesture.Point) {
	t.Helper()
	if err := conn.WriteJSON(clientMessage{Type: typ, X: p.X, Y: p.Y}); err != nil {
		t.Fatalf("WriteJSON(%s) error = %v", typ, err)
	}
}

func receive(t *testing.T, conn *websocket.Conn) serverMessage {
	t.Helper()
	var msg serverMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return msg
}

func TestSession_LiveAndResult(t *testing.T) {
	a := newTestApp(t)
	ts := httptest.NewServer(New(Config{App: a}))
	defer ts.Close()
	conn := dialSession(t, ts)

	points := testdata.MustLoadPath("up-then-right").Points
	send(t, conn, msgPress, points[0])

	var live serverMessage
	for _, p := range points[1:] {
		send(t, conn, msgMove, p)
		live = receive(t, conn)
		if live.Type != msgLive {
			t.Fatalf("expected live message, got %+v", live)
		}
	}
	if live.Token != "up then right" {
		t.Errorf("last live token = %q, want 'up then right'", live.Token)
	}

	send(t, conn, msgRelease, gesture.Point{})
	result := receive(t, conn)
	if result.Type != msgResult {
		t.Fatalf("expected result message, got %+v", result)
	}
	if result.Token != "up then right" || !result.Recognized || result.Similarity <= 0 {
		t.Errorf("result = %+v, want recognized 'up then right'", result)
	}

	if _, err := a.Store().Recognitions().GetByID(result.ID); err != nil {
		t.Errorf("expected recognition %s to be stored: %v", result.ID, err)
	}
}

func TestSession_CancelDiscardsPath(t *testing.T) {
	ts := httptest.NewServer(New(Config{App: newTestApp(t)}))
	defer ts.Close()
	conn := dialSession(t, ts)

	points := testdata.MustLoadPath("left").Points
	send(t, conn, msgPress, points[0])
	for _, p := range points[1:] {
		send(t, conn, msgMove, p)
		receive(t, conn)
	}
	send(t, conn, msgCancel, gesture.Point{})
	send(t, conn, msgRelease, gesture.Point{})

	msg := receive(t, conn)
	if msg.Type != msgError {
		t.Errorf("expected error after release of a cancelled path, got %+v", msg)
	}
}

func TestSession_BadMessages(t *testing.T) {
	ts := httptest.NewServer(New(Config{App: newTestApp(t)}))
	defer ts.Close()
	conn := dialSession(t, ts)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	if msg := receive(t, conn); msg.Type != msgError {
		t.Errorf("expected error for invalid JSON, got %+v", msg)
	}

	send(t, conn, "wiggle", gesture.Point{})
	if msg := receive(t, conn); msg.Type != msgError || !strings.Contains(msg.Error, "wiggle") {
		t.Errorf("expected error naming the type, got %+v", msg)
	}

	// The connection survives bad input.
	send(t, conn, msgMove, gesture.Point{X: 1, Y: 1})
	if msg := receive(t, conn); msg.Type != msgLive {
		t.Errorf("expected live message, got %+v", msg)
	}
}
