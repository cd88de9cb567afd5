package unitconv

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/saadjs/unitconv/internal/app"
	"github.com/saadjs/unitconv/internal/db"
	"github.com/saadjs/unitconv/internal/units"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

func parseValueArg(value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", value)
	}
	if err := units.CheckFinite(v); err != nil {
		return 0, err
	}
	return v, nil
}

// resolveCategory returns the category named by flag, or the category of
// unitCode when flag is empty.
func resolveCategory(flag, unitCode string) (units.Category, error) {
	if strings.TrimSpace(flag) != "" {
		return units.ParseCategory(flag)
	}
	c, ok := units.CategoryOf(unitCode)
	if !ok {
		return "", fmt.Errorf("%w: %q (pass --category or run `unitconv units <category>`)", units.ErrUnknownUnit, unitCode)
	}
	return c, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
