package store

import (
	"database/sql"
	"errors"
	"strconv"
)

// SettingRepository reads and writes key-value settings.
type SettingRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingRepository {
	return &SettingRepository{db: s.db}
}

// Get returns the value stored under key, or ErrNotFound.
func (r *SettingRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *SettingRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// GetBool returns the boolean stored under key, or def when it is
// missing or unparsable.
func (r *SettingRepository) GetBool(key string, def bool) (bool, error) {
	value, err := r.Get(key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return def, nil
	}
	return b, nil
}

// SetBool stores a boolean under key.
func (r *SettingRepository) SetBool(key string, value bool) error {
	return r.Set(key, strconv.FormatBool(value))
}
