package e2e

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/testdata"
)

type event struct {
	ID         string `json:"id"`
	Token      string `json:"token"`
	Recognized bool   `json:"recognized"`
	Reason     string `json:"reason"`
	Dispatch   *struct {
		Action  string `json:"action"`
		Success bool   `json:"success"`
	} `json:"dispatch"`
}

// installPlugin writes a browser-keys stand-in that appends every request
// to a log file.
func installPlugin(t *testing.T, dir, logPath string) {
	t.Helper()

	pluginDir := filepath.Join(dir, app.DefaultPlugin)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	var actions []string
	for _, action := range app.DefaultBindings {
		if !slices.Contains(actions, action) {
			actions = append(actions, action)
		}
	}
	manifest, _ := json.Marshal(map[string]any{
		"name":       app.DefaultPlugin,
		"version":    "1.0.0",
		"executable": "run.sh",
		"actions":    actions,
	})
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), manifest, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	script := "#!/bin/sh\ncat >> " + logPath + "\necho >> " + logPath + "\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(pluginDir, "run.sh"), []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
}

func loggedActions(t *testing.T, logPath string) []string {
	t.Helper()

	f, err := os.Open(logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to open plugin log: %v", err)
	}
	defer f.Close()

	var actions []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var req struct {
			Action string `json:"action"`
		}
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			t.Fatalf("bad request line %q: %v", line, err)
		}
		actions = append(actions, req.Action)
	}
	return actions
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "requests.log")
	pluginDir := filepath.Join(tmpDir, "plugins")
	installPlugin(t, pluginDir, logPath)

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application, err := app.New(app.Config{
		Store:     s,
		PluginDir: pluginDir,
		Engine:    gesture.DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	if err := application.DiscoverPlugins(); err != nil {
		t.Fatalf("DiscoverPlugins() error = %v", err)
	}
	if _, err := application.SeedBindings(); err != nil {
		t.Fatalf("SeedBindings() error = %v", err)
	}

	ts := httptest.NewServer(server.New(server.Config{App: application}))
	defer ts.Close()
	client := ts.Client()

	recognize := func(t *testing.T, fixture string) event {
		t.Helper()
		body, _ := json.Marshal(map[string]any{"points": testdata.MustLoadPath(fixture).Points})
		resp, err := client.Post(ts.URL+"/api/recognize", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("recognize error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("recognize status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		var ev event
		json.NewDecoder(resp.Body).Decode(&ev)
		return ev
	}

	t.Run("SeededBindings", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/bindings")
		if err != nil {
			t.Fatalf("list bindings error = %v", err)
		}
		defer resp.Body.Close()

		var list struct {
			Bindings []struct {
				Token string `json:"token"`
			} `json:"bindings"`
		}
		json.NewDecoder(resp.Body).Decode(&list)
		if len(list.Bindings) != len(app.DefaultBindings) {
			t.Errorf("expected %d seeded bindings, got %d", len(app.DefaultBindings), len(list.Bindings))
		}
	})

	t.Run("GesturesDispatch", func(t *testing.T) {
		tests := []struct {
			fixture string
			token   string
			action  string
		}{
			{"left", "left", "go-back"},
			{"up-then-right", "up then right", "switch-to-right-tab"},
			{"close-tab", "down then right", "close-tab"},
		}

		for _, tt := range tests {
			ev := recognize(t, tt.fixture)
			if ev.Token != tt.token {
				t.Errorf("%s: expected %q, got %q", tt.fixture, tt.token, ev.Token)
				continue
			}
			if ev.Dispatch == nil || !ev.Dispatch.Success || ev.Dispatch.Action != tt.action {
				t.Errorf("%s: expected successful %s dispatch, got %+v", tt.fixture, tt.action, ev.Dispatch)
			}
		}

		want := []string{"go-back", "switch-to-right-tab", "close-tab"}
		if got := loggedActions(t, logPath); !slices.Equal(got, want) {
			t.Errorf("plugin saw %v, want %v", got, want)
		}
	})

	t.Run("RejectedPathDoesNotDispatch", func(t *testing.T) {
		before := len(loggedActions(t, logPath))
		ev := recognize(t, "scribble")
		if ev.Recognized || ev.Dispatch != nil {
			t.Errorf("expected rejection without dispatch, got %+v", ev)
		}
		if after := len(loggedActions(t, logPath)); after != before {
			t.Errorf("plugin ran for a rejected path")
		}
	})

	t.Run("DisabledStillRecords", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/enabled", strings.NewReader(`{"enabled": false}`))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("disable error = %v", err)
		}
		resp.Body.Close()

		before := len(loggedActions(t, logPath))
		ev := recognize(t, "left")
		if ev.Token != "left" || ev.Dispatch != nil {
			t.Errorf("expected 'left' without dispatch, got %+v", ev)
		}
		if after := len(loggedActions(t, logPath)); after != before {
			t.Errorf("plugin ran while disabled")
		}

		if _, err := s.Recognitions().GetByID(ev.ID); err != nil {
			t.Errorf("expected recognition to be recorded while disabled: %v", err)
		}
	})

	t.Run("History", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/recognitions")
		if err != nil {
			t.Fatalf("list recognitions error = %v", err)
		}
		defer resp.Body.Close()

		var list struct {
			Recognitions []struct {
				Token string `json:"token"`
			} `json:"recognitions"`
		}
		json.NewDecoder(resp.Body).Decode(&list)
		if len(list.Recognitions) != 5 {
			t.Fatalf("expected 5 recognitions, got %d", len(list.Recognitions))
		}
		if list.Recognitions[0].Token != "left" {
			t.Errorf("expected newest recognition first, got %q", list.Recognitions[0].Token)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after app operations")
		}
		resp.Body.Close()
	})
}

func TestE2E_AllFixturesClassify(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	paths, err := testdata.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	rec, err := gesture.NewRecognizer(gesture.DefaultConfig())
	if err != nil {
		t.Fatalf("NewRecognizer() error = %v", err)
	}

	for _, p := range paths {
		t.Run(p.Name, func(t *testing.T) {
			result, diag := rec.Recognize(p.Points)
			if result.Recognized() && !gesture.IsValid(result.Token) {
				t.Errorf("token %q is not in the vocabulary", result.Token)
			}
			if !result.Recognized() && diag.Reason == "" {
				t.Errorf("rejected path carries no reason")
			}
			if result.Recognized() && diag.Reason != "" {
				t.Errorf("recognized path carries reason %q", diag.Reason)
			}
		})
	}
}
