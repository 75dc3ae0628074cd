package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Bindings table - maps a gesture token to a plugin action
		`CREATE TABLE IF NOT EXISTS bindings (
			id TEXT PRIMARY KEY,
			token TEXT NOT NULL UNIQUE,
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			params TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Recognitions table - history of classified paths with diagnostics
		`CREATE TABLE IF NOT EXISTS recognitions (
			id TEXT PRIMARY KEY,
			token TEXT NOT NULL DEFAULT '',
			similarity REAL NOT NULL DEFAULT 0,
			recognized INTEGER NOT NULL DEFAULT 0,
			reason TEXT NOT NULL DEFAULT '',
			points TEXT NOT NULL DEFAULT '[]',
			simplified TEXT NOT NULL DEFAULT '[]',
			diagnostics TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_recognitions_created_at ON recognitions(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
