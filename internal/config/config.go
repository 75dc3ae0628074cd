// Package config loads mudra's settings file and environment overrides.
package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/trail"
)

// Environment variables that override settings file values.
const (
	EnvAddr      = "MUDRA_ADDR"
	EnvDB        = "MUDRA_DB"
	EnvPluginDir = "MUDRA_PLUGIN_DIR"
	EnvWebDir    = "MUDRA_WEB_DIR"
	EnvSettings  = "MUDRA_SETTINGS"
)

// Settings is the process-wide configuration. It is read once at startup.
type Settings struct {
	Addr      string         `json:"addr"`
	DBPath    string         `json:"db_path"`
	PluginDir string         `json:"plugin_dir"`
	WebDir    string         `json:"web_dir"`
	TrailSize int            `json:"trail_size"`
	Engine    gesture.Config `json:"engine"`
}

// DataDir returns ~/.mudra, creating it if needed.
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// SettingsPath returns the settings file location. MUDRA_SETTINGS wins over
// ~/.config/mudra/settings.json.
func SettingsPath() (string, error) {
	if p := os.Getenv(EnvSettings); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(homeDir, ".config", "mudra")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "settings.json"), nil
}

// Defaults returns the settings used when the file is missing or broken.
func Defaults(dataDir string) *Settings {
	return &Settings{
		Addr:      ":8080",
		DBPath:    filepath.Join(dataDir, "mudra.db"),
		PluginDir: filepath.Join(dataDir, "plugins"),
		TrailSize: trail.DefaultSize,
		Engine:    gesture.DefaultConfig(),
	}
}

// LoadEnv reads a .env file from the working directory if one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[WARN] No .env file found, using system environment variables")
	} else {
		log.Println("[INFO] Loaded environment variables from .env file")
	}
}

// Load reads the settings file at path. A missing file is created with
// defaults. Unknown keys are reported, invalid values fall back to defaults.
func Load(path, dataDir string) (*Settings, error) {
	defaults := Defaults(dataDir)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Creating default settings file at %s", path)
			if err := Save(path, defaults); err != nil {
				log.Printf("Failed to create default settings file: %v", err)
			}
			return defaults, nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("Invalid settings file, using defaults: %v", err)
		return defaults, nil
	}
	warnUnknownKeys("", raw, reflect.TypeOf(Settings{}))

	settings := Defaults(dataDir)
	if err := json.Unmarshal(data, settings); err != nil {
		log.Printf("Invalid settings file, using defaults: %v", err)
		return defaults, nil
	}

	if settings.TrailSize < trail.MinSize || settings.TrailSize > trail.MaxSize {
		log.Printf("Invalid trail_size value %d, must be between %d and %d, using default %d",
			settings.TrailSize, trail.MinSize, trail.MaxSize, defaults.TrailSize)
		settings.TrailSize = defaults.TrailSize
	}
	if err := settings.Engine.Validate(); err != nil {
		log.Printf("Invalid engine settings, using defaults: %v", err)
		settings.Engine = defaults.Engine
	}

	return settings, nil
}

// ApplyEnv overrides paths and the listen address from the environment.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		s.Addr = v
	}
	if v := os.Getenv(EnvDB); v != "" {
		s.DBPath = v
	}
	if v := os.Getenv(EnvPluginDir); v != "" {
		s.PluginDir = v
	}
	if v := os.Getenv(EnvWebDir); v != "" {
		s.WebDir = v
	}
}

// Save writes settings to path as indented JSON.
func Save(path string, s *Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// warnUnknownKeys logs keys in raw that have no matching json tag in t,
// descending into nested objects.
func warnUnknownKeys(prefix string, raw map[string]any, t reflect.Type) {
	known := knownKeys(t)
	for key, value := range raw {
		field, ok := known[key]
		if !ok {
			log.Printf("Warning: unrecognised setting key '%s%s' in settings file", prefix, key)
			continue
		}
		nested, isObject := value.(map[string]any)
		if isObject && field.Type.Kind() == reflect.Struct {
			warnUnknownKeys(prefix+key+".", nested, field.Type)
		}
	}
}

func knownKeys(t reflect.Type) map[string]reflect.StructField {
	keys := make(map[string]reflect.StructField)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if jsonTag := field.Tag.Get("json"); jsonTag != "" {
			tagName := strings.Split(jsonTag, ",")[0]
			if tagName != "-" {
				keys[tagName] = field
			}
		}
	}
	return keys
}
