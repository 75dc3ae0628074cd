package store

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBindingRepository_CRUD(t *testing.T) {
	repo := newTestStore(t).Bindings()

	b := &Binding{
		ID:         "b1",
		Token:      "down then right",
		PluginName: "browser-keys",
		ActionName: "close-tab",
		Enabled:    true,
	}

	t.Run("Create", func(t *testing.T) {
		if err := repo.Create(b); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if b.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID("b1")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Token != b.Token || got.ActionName != b.ActionName || !got.Enabled {
			t.Errorf("expected %+v, got %+v", b, got)
		}
		if string(got.Params) != "{}" {
			t.Errorf("expected empty params, got %s", got.Params)
		}
	})

	t.Run("GetByToken", func(t *testing.T) {
		got, err := repo.GetByToken("down then right")
		if err != nil {
			t.Fatalf("GetByToken() error = %v", err)
		}
		if got == nil || got.ID != "b1" {
			t.Fatalf("expected binding b1, got %+v", got)
		}

		missing, err := repo.GetByToken("up")
		if err != nil {
			t.Fatalf("GetByToken() error = %v", err)
		}
		if missing != nil {
			t.Errorf("expected nil for unbound token, got %+v", missing)
		}
	})

	t.Run("CreateDuplicateToken", func(t *testing.T) {
		dup := &Binding{ID: "b2", Token: "down then right", PluginName: "x", ActionName: "y"}
		if err := repo.Create(dup); !errors.Is(err, ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		b.ActionName = "close-window"
		b.Params = json.RawMessage(`{"confirm":true}`)
		b.Enabled = false
		if err := repo.Update(b); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := repo.GetByID("b1")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.ActionName != "close-window" || got.Enabled {
			t.Errorf("update not applied: %+v", got)
		}
		if string(got.Params) != `{"confirm":true}` {
			t.Errorf("expected params to round-trip, got %s", got.Params)
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		err := repo.Update(&Binding{ID: "nope", Token: "up"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := repo.Create(&Binding{ID: "b3", Token: "left", PluginName: "browser-keys", ActionName: "back", Enabled: true}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		list, err := repo.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 bindings, got %d", len(list))
		}
		if list[0].Token != "down then right" || list[1].Token != "left" {
			t.Errorf("expected bindings ordered by token, got %q, %q", list[0].Token, list[1].Token)
		}

		n, err := repo.Count()
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if n != 2 {
			t.Errorf("expected count 2, got %d", n)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.Delete("b1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.GetByID("b1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete("b1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for second delete, got %v", err)
		}
	})
}
