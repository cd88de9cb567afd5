package service

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/saadjs/unitconv/internal/model"
	"github.com/saadjs/unitconv/internal/units"
)

const (
	DefaultTopConversions = 3
	DefaultTheme          = "auto"
)

// MoveDirection is the direction a favourite unit moves within its category.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// DefaultPreferences returns the settings used before anything is stored.
// An empty FavoriteUnits entry means the built-in priority order applies.
func DefaultPreferences() model.Preferences {
	return model.Preferences{
		DecimalPlaces:      units.DefaultDecimalPlaces,
		ShowAllConversions: true,
		TopConversions:     DefaultTopConversions,
		Theme:              DefaultTheme,
		FavoriteUnits:      map[string][]string{},
	}
}

// FillDefaults replaces the fields a partial preferences document leaves at
// their zero value and that have no valid zero value.
func FillDefaults(p model.Preferences) model.Preferences {
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = DefaultTheme
	}
	if p.TopConversions == 0 {
		p.TopConversions = DefaultTopConversions
	}
	return p
}

func GetPreferences(db *sql.DB) (model.Preferences, error) {
	p := DefaultPreferences()
	cfg, err := ListConfig(db)
	if err != nil {
		return model.Preferences{}, err
	}
	if v, ok := cfg[ConfigDecimalPlaces]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return model.Preferences{}, fmt.Errorf("stored %s %q: %w", ConfigDecimalPlaces, v, err)
		}
		p.DecimalPlaces = n
	}
	if v, ok := cfg[ConfigTopConversions]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return model.Preferences{}, fmt.Errorf("stored %s %q: %w", ConfigTopConversions, v, err)
		}
		p.TopConversions = n
	}
	if v, ok := cfg[ConfigShowAllConversions]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return model.Preferences{}, fmt.Errorf("stored %s %q: %w", ConfigShowAllConversions, v, err)
		}
		p.ShowAllConversions = b
	}
	if v, ok := cfg[ConfigTheme]; ok && v != "" {
		p.Theme = v
	}

	rows, err := db.Query(`SELECT category, unit_code FROM favorite_units ORDER BY category ASC, position ASC`)
	if err != nil {
		return model.Preferences{}, fmt.Errorf("list favorite units: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category, code string
		if err := rows.Scan(&category, &code); err != nil {
			return model.Preferences{}, fmt.Errorf("scan favorite unit: %w", err)
		}
		p.FavoriteUnits[category] = append(p.FavoriteUnits[category], code)
	}
	if err := rows.Err(); err != nil {
		return model.Preferences{}, fmt.Errorf("iterate favorite units: %w", err)
	}
	return p, nil
}

// SetPreferences validates and stores p. Categories present in
// p.FavoriteUnits replace their stored order; other categories keep theirs.
func SetPreferences(db *sql.DB, p model.Preferences) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin preferences tx: %w", err)
	}
	if err := setPreferencesTx(tx, p); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit preferences: %w", err)
	}
	return nil
}

func setPreferencesTx(tx *sql.Tx, p model.Preferences) error {
	if err := validatePreferences(p); err != nil {
		return err
	}
	values := [][2]string{
		{ConfigDecimalPlaces, strconv.Itoa(p.DecimalPlaces)},
		{ConfigShowAllConversions, strconv.FormatBool(p.ShowAllConversions)},
		{ConfigTopConversions, strconv.Itoa(p.TopConversions)},
		{ConfigTheme, normalizeName(p.Theme)},
	}
	for _, kv := range values {
		if _, err := tx.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, kv[0], kv[1]); err != nil {
			return fmt.Errorf("set config %q: %w", kv[0], err)
		}
	}
	for name, codes := range p.FavoriteUnits {
		c, err := units.ParseCategory(name)
		if err != nil {
			return err
		}
		order, err := normalizeFavoriteOrder(c, codes)
		if err != nil {
			return err
		}
		if err := replaceFavoritesTx(tx, c, order); err != nil {
			return err
		}
	}
	return nil
}

func validatePreferences(p model.Preferences) error {
	if err := validateDecimalPlaces(p.DecimalPlaces); err != nil {
		return err
	}
	if err := validateTopConversions(p.TopConversions); err != nil {
		return err
	}
	return validateTheme(normalizeName(p.Theme))
}

// FavoriteUnits returns the display order of category: the stored order when
// one exists, otherwise table order. The bool reports whether it was stored.
func FavoriteUnits(db *sql.DB, category string) ([]string, bool, error) {
	c, err := units.ParseCategory(category)
	if err != nil {
		return nil, false, err
	}
	stored, err := storedFavorites(db, c)
	if err != nil {
		return nil, false, err
	}
	if len(stored) == 0 {
		return units.UnitCodes(c), false, nil
	}
	return stored, true, nil
}

// SetFavoriteUnits stores codes as the display order of category. Units of
// the category that codes leaves out are appended in table order, so the
// stored order always covers the whole category.
func SetFavoriteUnits(db *sql.DB, category string, codes []string) ([]string, error) {
	c, err := units.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	order, err := normalizeFavoriteOrder(c, codes)
	if err != nil {
		return nil, err
	}
	if err := writeFavorites(db, c, order); err != nil {
		return nil, err
	}
	return order, nil
}

// MoveFavoriteUnit swaps code with its neighbour in dir. Moving the first unit
// up or the last unit down leaves the order unchanged.
func MoveFavoriteUnit(db *sql.DB, category, code string, dir MoveDirection) ([]string, error) {
	c, err := units.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if _, err := units.Lookup(c, strings.TrimSpace(code)); err != nil {
		return nil, err
	}
	order, err := storedFavorites(db, c)
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		order = units.UnitCodes(c)
	}
	idx := -1
	for i, v := range order {
		if v == strings.TrimSpace(code) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("unit %q is not in the %s order", code, c)
	}
	switch dir {
	case MoveUp:
		if idx == 0 {
			return order, nil
		}
		order[idx-1], order[idx] = order[idx], order[idx-1]
	case MoveDown:
		if idx == len(order)-1 {
			return order, nil
		}
		order[idx], order[idx+1] = order[idx+1], order[idx]
	default:
		return nil, fmt.Errorf("invalid direction %q (use up or down)", dir)
	}
	if err := writeFavorites(db, c, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ResetFavoriteUnits drops the stored order of category, or of every category
// when category is empty, and returns how many stored rows were removed.
func ResetFavoriteUnits(db *sql.DB, category string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if strings.TrimSpace(category) == "" {
		res, err = db.Exec(`DELETE FROM favorite_units`)
	} else {
		c, perr := units.ParseCategory(category)
		if perr != nil {
			return 0, perr
		}
		res, err = db.Exec(`DELETE FROM favorite_units WHERE category = ?`, c.String())
	}
	if err != nil {
		return 0, fmt.Errorf("reset favorite units: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset favorite units rows affected: %w", err)
	}
	return affected, nil
}

func storedFavorites(db *sql.DB, c units.Category) ([]string, error) {
	rows, err := db.Query(`SELECT unit_code FROM favorite_units WHERE category = ? ORDER BY position ASC`, c.String())
	if err != nil {
		return nil, fmt.Errorf("list favorite units for %s: %w", c, err)
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan favorite unit: %w", err)
		}
		out = append(out, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorite units: %w", err)
	}
	return out, nil
}

func normalizeFavoriteOrder(c units.Category, codes []string) ([]string, error) {
	out := make([]string, 0, len(units.UnitCodes(c)))
	seen := map[string]bool{}
	for _, raw := range codes {
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		if _, err := units.Lookup(c, code); err != nil {
			return nil, err
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	for _, code := range units.UnitCodes(c) {
		if !seen[code] {
			out = append(out, code)
		}
	}
	return out, nil
}

func writeFavorites(db *sql.DB, c units.Category, order []string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin favorite units tx: %w", err)
	}
	if err := replaceFavoritesTx(tx, c, order); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit favorite units: %w", err)
	}
	return nil
}

func replaceFavoritesTx(tx *sql.Tx, c units.Category, order []string) error {
	if _, err := tx.Exec(`DELETE FROM favorite_units WHERE category = ?`, c.String()); err != nil {
		return fmt.Errorf("clear favorite units for %s: %w", c, err)
	}
	for i, code := range order {
		if _, err := tx.Exec(`INSERT INTO favorite_units(category, unit_code, position) VALUES(?, ?, ?)`, c.String(), code, i); err != nil {
			return fmt.Errorf("insert favorite unit %s/%s: %w", c, code, err)
		}
	}
	return nil
}

// Present expands value into the other units of c and orders the result by
// the user's favourite order for c, or by the built-in priority table when
// none is stored. With ShowAllConversions off only TopConversions are kept.
func Present(p model.Preferences, value float64, from string, c units.Category) ([]units.ConversionResult, error) {
	out, err := units.ExpandWithPlaces(value, from, c, nil, p.DecimalPlaces)
	if err != nil {
		return nil, err
	}
	if order := p.FavoriteUnits[c.String()]; len(order) > 0 {
		out = units.RankByOrder(out, order)
	} else {
		out = units.Rank(c, out)
	}
	if !p.ShowAllConversions && p.TopConversions > 0 && len(out) > p.TopConversions {
		out = out[:p.TopConversions]
	}
	return out, nil
}
