package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 2,
		name:    "favorite_units",
		sql: `
CREATE TABLE IF NOT EXISTS favorite_units (
  category TEXT NOT NULL,
  unit_code TEXT NOT NULL,
  position INTEGER NOT NULL CHECK(position >= 0),
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(category, unit_code)
);

CREATE INDEX IF NOT EXISTS idx_favorite_units_category_position ON favorite_units(category, position);
`,
	},
	{
		version: 3,
		name:    "conversion_history",
		sql: `
CREATE TABLE IF NOT EXISTS conversion_history (
  id TEXT PRIMARY KEY,
  input TEXT NOT NULL,
  value REAL NOT NULL,
  unit_code TEXT NOT NULL,
  category TEXT NOT NULL,
  created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversion_history_created_at ON conversion_history(created_at);
CREATE INDEX IF NOT EXISTS idx_conversion_history_category ON conversion_history(category);
`,
	},
}

// defaultConfig is seeded once; later writes are never overwritten.
var defaultConfig = [][2]string{
	{"decimal_places", "2"},
	{"show_all_conversions", "true"},
	{"top_conversions", "3"},
	{"theme", "auto"},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	for _, kv := range defaultConfig {
		if _, err := db.Exec(`INSERT OR IGNORE INTO app_config(key, value) VALUES(?, ?)`, kv[0], kv[1]); err != nil {
			return fmt.Errorf("seed default config %s: %w", kv[0], err)
		}
	}
	return nil
}
