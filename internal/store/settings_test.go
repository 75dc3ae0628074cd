package store

import (
	"errors"
	"testing"
)

func TestSettingRepository(t *testing.T) {
	repo := newTestStore(t).Settings()

	if _, err := repo.Get("enabled"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	enabled, err := repo.GetBool("enabled", true)
	if err != nil {
		t.Fatalf("GetBool() error = %v", err)
	}
	if !enabled {
		t.Error("expected default true for missing key")
	}

	if err := repo.SetBool("enabled", false); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	enabled, err = repo.GetBool("enabled", true)
	if err != nil {
		t.Fatalf("GetBool() error = %v", err)
	}
	if enabled {
		t.Error("expected stored false")
	}

	if err := repo.Set("enabled", "garbage"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	enabled, err = repo.GetBool("enabled", true)
	if err != nil {
		t.Fatalf("GetBool() error = %v", err)
	}
	if !enabled {
		t.Error("expected default for unparsable value")
	}
}
