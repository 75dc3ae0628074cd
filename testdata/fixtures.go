package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/ayusman/mudra/internal/gesture"
)

//go:embed paths/*.json
var pathsFS embed.FS

// Path is a recorded pointer path.
type Path struct {
	Name        string          `json:"-"`
	Description string          `json:"description"`
	Points      []gesture.Point `json:"points"`
}

// LoadPath loads a recorded path by name, without the .json suffix.
func LoadPath(name string) (*Path, error) {
	data, err := pathsFS.ReadFile("paths/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load path %s: %w", name, err)
	}

	var p Path
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode path %s: %w", name, err)
	}
	p.Name = name

	return &p, nil
}

// MustLoadPath is LoadPath for tests. It panics on error.
func MustLoadPath(name string) *Path {
	p, err := LoadPath(name)
	if err != nil {
		panic(err)
	}
	return p
}

// LoadAll loads every recorded path, sorted by name.
func LoadAll() ([]*Path, error) {
	entries, err := pathsFS.ReadDir("paths")
	if err != nil {
		return nil, err
	}

	var paths []*Path
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		p, err := LoadPath(strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}

	return paths, nil
}
