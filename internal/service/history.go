package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saadjs/unitconv/internal/model"
	"github.com/saadjs/unitconv/internal/units"
)

const defaultHistoryLimit = 100

// historyTimeLayout is fixed-width so created_at sorts lexically.
const historyTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type HistoryFilter struct {
	Category string
	Limit    int
}

// RecordConversion stores one looked-up quantity and returns the stored entry.
func RecordConversion(db *sql.DB, input string, value float64, unitCode string, c units.Category) (model.HistoryEntry, error) {
	if _, err := units.Lookup(c, unitCode); err != nil {
		return model.HistoryEntry{}, err
	}
	if err := units.CheckFinite(value); err != nil {
		return model.HistoryEntry{}, err
	}
	entry := model.HistoryEntry{
		ID:        uuid.NewString(),
		Input:     strings.TrimSpace(input),
		Value:     value,
		UnitCode:  unitCode,
		Category:  c.String(),
		CreatedAt: time.Now().UTC(),
	}
	if err := insertHistory(db, entry); err != nil {
		return model.HistoryEntry{}, err
	}
	return entry, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertHistory(db execer, e model.HistoryEntry) error {
	_, err := db.Exec(`
INSERT INTO conversion_history(id, input, value, unit_code, category, created_at)
VALUES(?, ?, ?, ?, ?, ?)`,
		e.ID, e.Input, e.Value, e.UnitCode, e.Category, e.CreatedAt.UTC().Format(historyTimeLayout))
	if err != nil {
		return fmt.Errorf("record conversion history: %w", err)
	}
	return nil
}

// ListHistory returns the newest entries first. A zero Limit uses the default
// page size and a negative one returns every entry.
func ListHistory(db *sql.DB, filter HistoryFilter) ([]model.HistoryEntry, error) {
	limit := filter.Limit
	switch {
	case limit == 0:
		limit = defaultHistoryLimit
	case limit < 0:
		limit = -1
	}
	base := `SELECT id, input, value, unit_code, category, created_at FROM conversion_history`
	args := make([]any, 0, 2)
	if strings.TrimSpace(filter.Category) != "" {
		c, err := units.ParseCategory(filter.Category)
		if err != nil {
			return nil, err
		}
		base += ` WHERE category = ?`
		args = append(args, c.String())
	}
	base += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(base, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversion history: %w", err)
	}
	defer rows.Close()
	out := make([]model.HistoryEntry, 0)
	for rows.Next() {
		var e model.HistoryEntry
		var created string
		if err := rows.Scan(&e.ID, &e.Input, &e.Value, &e.UnitCode, &e.Category, &created); err != nil {
			return nil, fmt.Errorf("scan conversion history: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversion history: %w", err)
	}
	return out, nil
}

func PurgeHistory(db *sql.DB, category string, purgeAll bool) (int64, error) {
	category = strings.TrimSpace(category)

	var (
		res sql.Result
		err error
	)
	switch {
	case purgeAll:
		res, err = db.Exec(`DELETE FROM conversion_history`)
	case category != "":
		c, perr := units.ParseCategory(category)
		if perr != nil {
			return 0, perr
		}
		res, err = db.Exec(`DELETE FROM conversion_history WHERE category = ?`, c.String())
	default:
		return 0, fmt.Errorf("specify --all or --category")
	}
	if err != nil {
		return 0, fmt.Errorf("purge conversion history: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge conversion history rows affected: %w", err)
	}
	return affected, nil
}
