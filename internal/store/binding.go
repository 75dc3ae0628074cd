package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrConflict is returned when a binding already exists for a token.
var ErrConflict = errors.New("already exists")

// Binding maps a gesture token to a plugin action.
type Binding struct {
	ID         string
	Token      string
	PluginName string
	ActionName string
	Params     json.RawMessage
	Enabled    bool
	CreatedAt  time.Time
}

// BindingRepository provides CRUD operations for bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

const bindingColumns = `id, token, plugin_name, action_name, params, enabled, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBinding(row scanner) (*Binding, error) {
	b := &Binding{}
	var params string
	var enabled int

	if err := row.Scan(&b.ID, &b.Token, &b.PluginName, &b.ActionName, &params, &enabled, &b.CreatedAt); err != nil {
		return nil, err
	}

	b.Params = json.RawMessage(params)
	b.Enabled = enabled != 0
	return b, nil
}

func paramsOrEmpty(p json.RawMessage) string {
	if len(p) == 0 {
		return "{}"
	}
	return string(p)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Create inserts a new binding. It returns ErrConflict if the token is
// already bound.
func (r *BindingRepository) Create(b *Binding) error {
	b.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO bindings (`+bindingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Token, b.PluginName, b.ActionName, paramsOrEmpty(b.Params), b.Enabled, b.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*Binding, error) {
	b, err := scanBinding(r.db.QueryRow(`SELECT `+bindingColumns+` FROM bindings WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByToken retrieves the binding for a gesture token.
// Returns nil, nil if nothing is bound to the token.
func (r *BindingRepository) GetByToken(token string) (*Binding, error) {
	b, err := scanBinding(r.db.QueryRow(`SELECT `+bindingColumns+` FROM bindings WHERE token = ?`, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

// List retrieves all bindings ordered by token.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(`SELECT ` + bindingColumns + ` FROM bindings ORDER BY token`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b, err := scanBinding(rows)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bindings, nil
}

// Update updates an existing binding.
func (r *BindingRepository) Update(b *Binding) error {
	enabled := 0
	if b.Enabled {
		enabled = 1
	}

	result, err := r.db.Exec(
		`UPDATE bindings SET token = ?, plugin_name = ?, action_name = ?, params = ?, enabled = ?
		 WHERE id = ?`,
		b.Token, b.PluginName, b.ActionName, paramsOrEmpty(b.Params), enabled, b.ID,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return err
	}

	return expectOneRow(result)
}

// Delete removes a binding by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	return expectOneRow(result)
}

// Count returns the number of stored bindings.
func (r *BindingRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bindings`).Scan(&n)
	return n, err
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
