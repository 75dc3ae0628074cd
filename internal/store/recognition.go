package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Recognition is one classified path kept for the debug view.
type Recognition struct {
	ID          string
	Token       string
	Similarity  float64
	Recognized  bool
	Reason      string
	Points      []gesture.Point
	Simplified  []gesture.Point
	Diagnostics json.RawMessage
	CreatedAt   time.Time
}

// RecognitionRepository stores the recognition history.
type RecognitionRepository struct {
	db *sql.DB
}

// Recognitions returns the recognition repository for this store.
func (s *Store) Recognitions() *RecognitionRepository {
	return &RecognitionRepository{db: s.db}
}

const recognitionColumns = `id, token, similarity, recognized, reason, points, simplified, diagnostics, created_at`

func scanRecognition(row scanner) (*Recognition, error) {
	rec := &Recognition{}
	var recognized int
	var points, simplified, diagnostics string

	err := row.Scan(&rec.ID, &rec.Token, &rec.Similarity, &recognized, &rec.Reason,
		&points, &simplified, &diagnostics, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	rec.Recognized = recognized != 0
	if err := json.Unmarshal([]byte(points), &rec.Points); err != nil {
		return nil, fmt.Errorf("failed to decode points: %w", err)
	}
	if err := json.Unmarshal([]byte(simplified), &rec.Simplified); err != nil {
		return nil, fmt.Errorf("failed to decode simplified points: %w", err)
	}
	rec.Diagnostics = json.RawMessage(diagnostics)
	return rec, nil
}

// Create inserts a recognition.
func (r *RecognitionRepository) Create(rec *Recognition) error {
	rec.CreatedAt = time.Now()

	points, err := json.Marshal(orEmpty(rec.Points))
	if err != nil {
		return fmt.Errorf("failed to encode points: %w", err)
	}
	simplified, err := json.Marshal(orEmpty(rec.Simplified))
	if err != nil {
		return fmt.Errorf("failed to encode simplified points: %w", err)
	}
	diagnostics := rec.Diagnostics
	if len(diagnostics) == 0 {
		diagnostics = json.RawMessage("{}")
	}

	_, err = r.db.Exec(
		`INSERT INTO recognitions (`+recognitionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Token, rec.Similarity, rec.Recognized, rec.Reason,
		string(points), string(simplified), string(diagnostics), rec.CreatedAt,
	)
	return err
}

// GetByID retrieves a recognition by its ID.
func (r *RecognitionRepository) GetByID(id string) (*Recognition, error) {
	rec, err := scanRecognition(r.db.QueryRow(
		`SELECT `+recognitionColumns+` FROM recognitions WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// List returns the most recent recognitions, newest first.
func (r *RecognitionRepository) List(limit int) ([]*Recognition, error) {
	rows, err := r.db.Query(
		`SELECT `+recognitionColumns+` FROM recognitions
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*Recognition
	for rows.Next() {
		rec, err := scanRecognition(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recs, nil
}

// Prune deletes all but the newest keep recognitions and returns how
// many rows were removed.
func (r *RecognitionRepository) Prune(keep int) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM recognitions WHERE rowid NOT IN (
			SELECT rowid FROM recognitions ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`,
		keep,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteAll clears the history and returns how many rows were removed.
func (r *RecognitionRepository) DeleteAll() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM recognitions`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func orEmpty(points []gesture.Point) []gesture.Point {
	if points == nil {
		return []gesture.Point{}
	}
	return points
}
