package service_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/saadjs/unitconv/internal/service"
	"github.com/saadjs/unitconv/internal/units"
)

func TestRecordAndListHistory(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	first, err := service.RecordConversion(db, " 5 km ", 5, "km", units.Length)
	if err != nil {
		t.Fatalf("record first: %v", err)
	}
	if _, err := uuid.Parse(first.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", first.ID)
	}
	if first.Input != "5 km" {
		t.Fatalf("expected trimmed input, got %q", first.Input)
	}
	if _, err := service.RecordConversion(db, "98.6°F", 98.6, "fahrenheit", units.Temperature); err != nil {
		t.Fatalf("record second: %v", err)
	}
	if _, err := service.RecordConversion(db, "3 mi", 3, "mi", units.Length); err != nil {
		t.Fatalf("record third: %v", err)
	}

	all, err := service.ListHistory(db, service.HistoryFilter{})
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].UnitCode != "mi" || all[2].UnitCode != "km" {
		t.Fatalf("expected newest first, got %s..%s", all[0].UnitCode, all[2].UnitCode)
	}
	if all[2].CreatedAt.IsZero() {
		t.Fatalf("expected created_at to round-trip")
	}

	length, err := service.ListHistory(db, service.HistoryFilter{Category: "Length", Limit: 1})
	if err != nil {
		t.Fatalf("list length history: %v", err)
	}
	if len(length) != 1 || length[0].UnitCode != "mi" {
		t.Fatalf("expected newest length entry only, got %+v", length)
	}
}

func TestRecordConversionValidates(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	if _, err := service.RecordConversion(db, "5 kg", 5, "kg", units.Length); !errors.Is(err, units.ErrUnknownUnit) {
		t.Fatalf("expected unknown unit, got %v", err)
	}
	if _, err := service.ListHistory(db, service.HistoryFilter{Category: "colour"}); !errors.Is(err, units.ErrUnknownCategory) {
		t.Fatalf("expected unknown category, got %v", err)
	}
}

func TestPurgeHistory(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	for _, rec := range []struct {
		code string
		c    units.Category
	}{{"km", units.Length}, {"m", units.Length}, {"kg", units.Weight}} {
		if _, err := service.RecordConversion(db, "1 "+rec.code, 1, rec.code, rec.c); err != nil {
			t.Fatalf("record %s: %v", rec.code, err)
		}
	}

	if _, err := service.PurgeHistory(db, "", false); err == nil {
		t.Fatalf("expected purge without scope to fail")
	}
	n, err := service.PurgeHistory(db, "length", false)
	if err != nil {
		t.Fatalf("purge length: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 length rows purged, got %d", n)
	}
	n, err = service.PurgeHistory(db, "", true)
	if err != nil {
		t.Fatalf("purge all: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 remaining row purged, got %d", n)
	}
}
