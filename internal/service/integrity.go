package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/saadjs/unitconv/internal/units"
)

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

type DoctorReport struct {
	UnknownFavoriteRows  int `json:"unknown_favorite_rows"`
	IncompleteCategories int `json:"incomplete_categories"`
	UnknownHistoryRows   int `json:"unknown_history_rows"`
	FixedRows            int `json:"fixed_rows,omitempty"`
}

func (r DoctorReport) Healthy() bool {
	return r.UnknownFavoriteRows == 0 && r.IncompleteCategories == 0 && r.UnknownHistoryRows == 0
}

// CreateBackup writes a consistent copy of the open database to outPath with
// VACUUM INTO, and a sha256 sidecar next to it.
func CreateBackup(db *sql.DB, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if _, err := os.Stat(outPath); err == nil {
		return BackupInfo{}, fmt.Errorf("backup %s already exists", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if _, err := db.Exec(`VACUUM INTO ?`, outPath); err != nil {
		return BackupInfo{}, fmt.Errorf("write backup: %w", err)
	}
	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

// RestoreBackup copies backupPath over dbPath. A checksum sidecar, when
// present, must match.
func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	if expected, err := os.ReadFile(backupPath + ".sha256"); err == nil {
		actual, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch")
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

func ListBackups(dir string) ([]BackupInfo, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := make([]BackupInfo, 0)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".db") {
			continue
		}
		full := filepath.Join(dir, f.Name())
		st, err := os.Stat(full)
		if err != nil {
			continue
		}
		checksum := ""
		if b, err := os.ReadFile(full + ".sha256"); err == nil {
			checksum = strings.TrimSpace(string(b))
		}
		out = append(out, BackupInfo{Path: full, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// RunDoctor looks for stored rows that no longer match the unit tables:
// favourite rows naming an unknown category or unit, categories whose stored
// order is not a full permutation, and history rows with an unknown unit.
// With fix, broken categories fall back to the built-in order and broken
// history rows are deleted.
func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	report := DoctorReport{}

	stored := map[string][]string{}
	rows, err := db.Query(`SELECT category, unit_code FROM favorite_units ORDER BY category, position`)
	if err != nil {
		return report, fmt.Errorf("doctor favorite query: %w", err)
	}
	for rows.Next() {
		var category, code string
		if err := rows.Scan(&category, &code); err != nil {
			_ = rows.Close()
			return report, fmt.Errorf("doctor favorite scan: %w", err)
		}
		stored[category] = append(stored[category], code)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return report, fmt.Errorf("doctor favorite iterate: %w", err)
	}
	_ = rows.Close()

	broken := make([]string, 0)
	for category, codes := range stored {
		c, err := units.ParseCategory(category)
		if err != nil {
			report.UnknownFavoriteRows += len(codes)
			broken = append(broken, category)
			continue
		}
		unknown := 0
		for _, code := range codes {
			if _, err := units.Lookup(c, code); err != nil {
				unknown++
			}
		}
		report.UnknownFavoriteRows += unknown
		if unknown > 0 {
			broken = append(broken, category)
		} else if len(codes) != len(units.UnitCodes(c)) {
			report.IncompleteCategories++
			broken = append(broken, category)
		}
	}

	badHistory := make([]string, 0)
	hrows, err := db.Query(`SELECT id, category, unit_code FROM conversion_history`)
	if err != nil {
		return report, fmt.Errorf("doctor history query: %w", err)
	}
	for hrows.Next() {
		var id, category, code string
		if err := hrows.Scan(&id, &category, &code); err != nil {
			_ = hrows.Close()
			return report, fmt.Errorf("doctor history scan: %w", err)
		}
		c, err := units.ParseCategory(category)
		if err == nil {
			_, err = units.Lookup(c, code)
		}
		if err != nil {
			report.UnknownHistoryRows++
			badHistory = append(badHistory, id)
		}
	}
	if err := hrows.Err(); err != nil {
		_ = hrows.Close()
		return report, fmt.Errorf("doctor history iterate: %w", err)
	}
	_ = hrows.Close()

	if !fix || (len(broken) == 0 && len(badHistory) == 0) {
		return report, nil
	}
	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("doctor fix begin tx: %w", err)
	}
	for _, category := range broken {
		res, err := tx.Exec(`DELETE FROM favorite_units WHERE category = ?`, category)
		if err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("doctor fix favorites %s: %w", category, err)
		}
		n, _ := res.RowsAffected()
		report.FixedRows += int(n)
	}
	for _, id := range badHistory {
		if _, err := tx.Exec(`DELETE FROM conversion_history WHERE id = ?`, id); err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("doctor fix history %s: %w", id, err)
		}
		report.FixedRows++
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("doctor fix commit: %w", err)
	}
	return report, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
