package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

var (
	// ErrPluginNotFound is returned when a requested plugin cannot be found.
	ErrPluginNotFound = errors.New("plugin not found")
	// ErrActionNotSupported is returned when a plugin does not declare an action.
	ErrActionNotSupported = errors.New("action not supported by plugin")
)

// Manager discovers plugins in a directory and looks them up by name.
type Manager struct {
	pluginDir string
	plugins   map[string]*Plugin
	mu        sync.RWMutex
}

// NewManager creates a new plugin Manager with the given plugin directory.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		plugins:   make(map[string]*Plugin),
	}
}

// Discover scans the plugin directory. Each subdirectory holding a valid
// plugin.json becomes a plugin; anything else is skipped with a log line.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plugins = make(map[string]*Plugin)

	// Check if plugin directory exists
	info, err := os.Stat(m.pluginDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.pluginDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		// Directories without a manifest are skipped silently
		pluginPath := filepath.Join(m.pluginDir, entry.Name())
		plugin, err := loadPlugin(pluginPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				log.Printf("Skipping plugin %s: %v", entry.Name(), err)
			}
			continue
		}
		m.plugins[plugin.Manifest.Name] = plugin
	}

	return nil
}

func loadPlugin(pluginPath string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(pluginPath, "plugin.json"))
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	if manifest.Name == "" || manifest.Executable == "" {
		return nil, fmt.Errorf("manifest needs a name and an executable")
	}

	return &Plugin{
		Manifest:   manifest,
		Path:       pluginPath,
		Executable: filepath.Join(pluginPath, manifest.Executable),
	}, nil
}

// Get returns a plugin by name.
// Returns ErrPluginNotFound if the plugin does not exist.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.plugins[name]
	if !ok {
		return nil, ErrPluginNotFound
	}

	return plugin, nil
}

// Resolve returns the named plugin if it declares action.
func (m *Manager) Resolve(name, action string) (*Plugin, error) {
	plugin, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	if !plugin.Manifest.Supports(action) {
		return nil, fmt.Errorf("%w: %s does not declare %q", ErrActionNotSupported, name, action)
	}
	return plugin, nil
}

// List returns all discovered plugins sorted by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, plugin := range m.plugins {
		plugins = append(plugins, plugin)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.Name < plugins[j].Manifest.Name
	})

	return plugins
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}
