package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/saadjs/unitconv/internal/model"
	"github.com/saadjs/unitconv/internal/units"
	"gopkg.in/yaml.v3"
)

const snapshotVersion = 1

type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// ParseExportFormat accepts json, yaml or yml.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch normalizeName(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q (use json or yaml)", s)
}

// Snapshot is the portable form of everything the local store holds.
type Snapshot struct {
	Version     int                  `json:"version" yaml:"version"`
	Preferences model.Preferences    `json:"preferences" yaml:"preferences"`
	History     []model.HistoryEntry `json:"history,omitempty" yaml:"history,omitempty"`
}

type ImportMode string

const (
	ImportModeFail    ImportMode = "fail"
	ImportModeSkip    ImportMode = "skip"
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Conflicts int      `json:"conflicts"`
	Warnings  []string `json:"warnings,omitempty"`
}

func ExportSnapshot(db *sql.DB, includeHistory bool) (*Snapshot, error) {
	prefs, err := GetPreferences(db)
	if err != nil {
		return nil, err
	}
	out := &Snapshot{Version: snapshotVersion, Preferences: prefs}
	if includeHistory {
		history, err := ListHistory(db, HistoryFilter{Limit: -1})
		if err != nil {
			return nil, err
		}
		out.History = history
	}
	return out, nil
}

func EncodeSnapshot(w io.Writer, snap *Snapshot, format ExportFormat) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode json snapshot: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode yaml snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flush yaml snapshot: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q (use json or yaml)", format)
	}
	return nil
}

func DecodeSnapshot(r io.Reader, format ExportFormat) (*Snapshot, error) {
	var snap Snapshot
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&snap); err != nil {
			return nil, fmt.Errorf("parse json snapshot: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
			return nil, fmt.Errorf("parse yaml snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q (use json or yaml)", format)
	}
	if snap.Version > snapshotVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", snap.Version, snapshotVersion)
	}
	return &snap, nil
}

// ImportSnapshot applies the preferences of snap and adds its history. Mode
// decides what happens to a history entry whose id is already stored.
func ImportSnapshot(db *sql.DB, snap *Snapshot, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{}
	if snap == nil {
		return report, fmt.Errorf("snapshot is required")
	}
	mode := normalizeImportMode(opts.Mode)
	if mode == "" {
		return report, fmt.Errorf("invalid import mode %q (use fail, skip, merge or replace)", opts.Mode)
	}

	prefs := FillDefaults(snap.Preferences)

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := setPreferencesTx(tx, prefs); err != nil {
		return report, err
	}
	if mode == ImportModeReplace {
		if _, err := tx.Exec(`DELETE FROM conversion_history`); err != nil {
			return report, fmt.Errorf("clear conversion history: %w", err)
		}
	}

	for _, e := range snap.History {
		c, err := units.ParseCategory(e.Category)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("history %s: %v", e.ID, err))
			report.Skipped++
			continue
		}
		if _, err := units.Lookup(c, e.UnitCode); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("history %s: %v", e.ID, err))
			report.Skipped++
			continue
		}
		if strings.TrimSpace(e.ID) == "" {
			report.Warnings = append(report.Warnings, "history entry without id skipped")
			report.Skipped++
			continue
		}
		e.Category = c.String()

		var exists int
		err = tx.QueryRow(`SELECT 1 FROM conversion_history WHERE id = ?`, e.ID).Scan(&exists)
		switch {
		case err == sql.ErrNoRows:
			if err := insertHistory(tx, e); err != nil {
				return report, err
			}
			report.Inserted++
		case err != nil:
			return report, fmt.Errorf("check history %s: %w", e.ID, err)
		case mode == ImportModeFail:
			report.Conflicts++
			return report, fmt.Errorf("history entry %s already exists", e.ID)
		case mode == ImportModeSkip:
			report.Skipped++
		default:
			if _, err := tx.Exec(`
UPDATE conversion_history SET input = ?, value = ?, unit_code = ?, category = ?, created_at = ?
WHERE id = ?`, e.Input, e.Value, e.UnitCode, c.String(), e.CreatedAt.UTC().Format(historyTimeLayout), e.ID); err != nil {
				return report, fmt.Errorf("update history %s: %w", e.ID, err)
			}
			report.Updated++
		}
	}

	if opts.DryRun {
		return report, nil
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit import: %w", err)
	}
	return report, nil
}

func normalizeImportMode(mode ImportMode) ImportMode {
	switch ImportMode(normalizeName(string(mode))) {
	case "":
		return ImportModeFail
	case ImportModeFail, ImportModeSkip, ImportModeMerge, ImportModeReplace:
		return ImportMode(normalizeName(string(mode)))
	}
	return ""
}
