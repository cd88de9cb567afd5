package service

import (
	"database/sql"

	"github.com/saadjs/unitconv/internal/model"
	"github.com/saadjs/unitconv/internal/units"
)

// Store binds the preference and history functions to one database handle so
// long-running surfaces can share it.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Preferences() (model.Preferences, error) {
	return GetPreferences(s.db)
}

func (s *Store) SavePreferences(p model.Preferences) error {
	return SetPreferences(s.db, p)
}

func (s *Store) Record(input string, value float64, unitCode string, c units.Category) error {
	_, err := RecordConversion(s.db, input, value, unitCode, c)
	return err
}
