package service

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/saadjs/unitconv/internal/units"
)

const (
	ConfigDecimalPlaces      = "decimal_places"
	ConfigShowAllConversions = "show_all_conversions"
	ConfigTopConversions     = "top_conversions"
	ConfigTheme              = "theme"
)

const maxTopConversions = 50

var themes = []string{"auto", "light", "dark"}

func SetConfig(db *sql.DB, key, value string) error {
	key = normalizeName(key)
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	value, err := normalizeConfigValue(key, value)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, value)
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

func GetConfig(db *sql.DB, key string) (string, bool, error) {
	key = normalizeName(key)
	if key == "" {
		return "", false, fmt.Errorf("config key is required")
	}
	var value string
	err := db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}

// normalizeConfigValue validates the keys the application reads and passes
// any other key through trimmed.
func normalizeConfigValue(key, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch key {
	case ConfigDecimalPlaces:
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("invalid %s %q", key, value)
		}
		if err := validateDecimalPlaces(n); err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	case ConfigTopConversions:
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("invalid %s %q", key, value)
		}
		if err := validateTopConversions(n); err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	case ConfigShowAllConversions:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("invalid %s %q (expected true or false)", key, value)
		}
		return strconv.FormatBool(b), nil
	case ConfigTheme:
		theme := normalizeName(value)
		if err := validateTheme(theme); err != nil {
			return "", err
		}
		return theme, nil
	}
	return value, nil
}

func validateDecimalPlaces(n int) error {
	if n < 0 || n > units.MaxDecimalPlaces {
		return fmt.Errorf("%s must be between 0 and %d", ConfigDecimalPlaces, units.MaxDecimalPlaces)
	}
	return nil
}

func validateTopConversions(n int) error {
	if n < 1 || n > maxTopConversions {
		return fmt.Errorf("%s must be between 1 and %d", ConfigTopConversions, maxTopConversions)
	}
	return nil
}

func validateTheme(theme string) error {
	for _, t := range themes {
		if t == theme {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (use %s)", ConfigTheme, theme, strings.Join(themes, ", "))
}
