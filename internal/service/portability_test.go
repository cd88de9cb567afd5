package service_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/saadjs/unitconv/internal/model"
	"github.com/saadjs/unitconv/internal/service"
	"github.com/saadjs/unitconv/internal/units"
)

func TestSnapshotRoundTripJSONAndYAML(t *testing.T) {
	t.Parallel()

	for _, format := range []service.ExportFormat{service.FormatJSON, service.FormatYAML} {
		src := newTestDB(t)
		prefs := service.DefaultPreferences()
		prefs.DecimalPlaces = 3
		prefs.FavoriteUnits = map[string][]string{"temperature": {"kelvin"}}
		if err := service.SetPreferences(src, prefs); err != nil {
			t.Fatalf("%s: set preferences: %v", format, err)
		}
		if _, err := service.RecordConversion(src, "300 K", 300, "kelvin", units.Temperature); err != nil {
			t.Fatalf("%s: record: %v", format, err)
		}

		snap, err := service.ExportSnapshot(src, true)
		if err != nil {
			t.Fatalf("%s: export: %v", format, err)
		}
		var buf bytes.Buffer
		if err := service.EncodeSnapshot(&buf, snap, format); err != nil {
			t.Fatalf("%s: encode: %v", format, err)
		}
		decoded, err := service.DecodeSnapshot(&buf, format)
		if err != nil {
			t.Fatalf("%s: decode: %v", format, err)
		}

		dst := newTestDB(t)
		report, err := service.ImportSnapshot(dst, decoded, service.ImportOptions{})
		if err != nil {
			t.Fatalf("%s: import: %v", format, err)
		}
		if report.Inserted != 1 {
			t.Fatalf("%s: expected 1 inserted entry, got %+v", format, report)
		}
		got, err := service.GetPreferences(dst)
		if err != nil {
			t.Fatalf("%s: get preferences: %v", format, err)
		}
		if got.DecimalPlaces != 3 || got.FavoriteUnits["temperature"][0] != "kelvin" {
			t.Fatalf("%s: preferences did not survive: %+v", format, got)
		}
		history, err := service.ListHistory(dst, service.HistoryFilter{})
		if err != nil {
			t.Fatalf("%s: list history: %v", format, err)
		}
		if len(history) != 1 || history[0].ID != snap.History[0].ID {
			t.Fatalf("%s: history did not survive: %+v", format, history)
		}
	}
}

func TestImportSnapshotModes(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	entry := model.HistoryEntry{
		ID:        "3f2b8c4e-0d7a-4c8e-9a51-6b2f0e1d9c77",
		Input:     "5 km",
		Value:     5,
		UnitCode:  "km",
		Category:  "length",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	snap := &service.Snapshot{Version: 1, Preferences: service.DefaultPreferences(), History: []model.HistoryEntry{entry}}

	if _, err := service.ImportSnapshot(db, snap, service.ImportOptions{Mode: service.ImportModeFail}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	report, err := service.ImportSnapshot(db, snap, service.ImportOptions{Mode: service.ImportModeFail})
	if err == nil || report.Conflicts != 1 {
		t.Fatalf("expected conflict in fail mode, got report=%+v err=%v", report, err)
	}
	report, err = service.ImportSnapshot(db, snap, service.ImportOptions{Mode: service.ImportModeSkip})
	if err != nil || report.Skipped != 1 {
		t.Fatalf("expected skip, got report=%+v err=%v", report, err)
	}

	snap.History[0].Input = "five km"
	report, err = service.ImportSnapshot(db, snap, service.ImportOptions{Mode: service.ImportModeMerge, DryRun: true})
	if err != nil || report.Updated != 1 {
		t.Fatalf("expected dry-run update, got report=%+v err=%v", report, err)
	}
	history, err := service.ListHistory(db, service.HistoryFilter{})
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if history[0].Input != "5 km" {
		t.Fatalf("expected dry run to leave data untouched, got %q", history[0].Input)
	}

	if _, err := service.ImportSnapshot(db, snap, service.ImportOptions{Mode: service.ImportModeMerge}); err != nil {
		t.Fatalf("merge import: %v", err)
	}
	history, err = service.ListHistory(db, service.HistoryFilter{})
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 || history[0].Input != "five km" {
		t.Fatalf("expected merged entry, got %+v", history)
	}

	if _, err := service.RecordConversion(db, "1 kg", 1, "kg", units.Weight); err != nil {
		t.Fatalf("record: %v", err)
	}
	report, err = service.ImportSnapshot(db, snap, service.ImportOptions{Mode: service.ImportModeReplace})
	if err != nil || report.Inserted != 1 {
		t.Fatalf("expected replace to reinsert, got report=%+v err=%v", report, err)
	}
	history, err = service.ListHistory(db, service.HistoryFilter{})
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected replace to clear other history, got %d entries", len(history))
	}

	if _, err := service.ImportSnapshot(db, snap, service.ImportOptions{Mode: "overwrite"}); err == nil {
		t.Fatalf("expected invalid mode to fail")
	}
}

func TestImportSnapshotSkipsUnknownUnits(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	snap := &service.Snapshot{
		Version:     1,
		Preferences: service.DefaultPreferences(),
		History: []model.HistoryEntry{
			{ID: "a", Value: 1, UnitCode: "parsec", Category: "length"},
			{ID: "b", Value: 1, UnitCode: "m", Category: "LENGTH"},
		},
	}
	report, err := service.ImportSnapshot(db, snap, service.ImportOptions{Mode: service.ImportModeSkip})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Inserted != 1 || report.Skipped != 1 || len(report.Warnings) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestDecodeSnapshotRejectsNewerVersion(t *testing.T) {
	t.Parallel()
	_, err := service.DecodeSnapshot(strings.NewReader(`{"version": 99}`), service.FormatJSON)
	if err == nil || !strings.Contains(err.Error(), "newer") {
		t.Fatalf("expected version error, got %v", err)
	}
	if _, err := service.ParseExportFormat("toml"); err == nil {
		t.Fatalf("expected unsupported format")
	}
	if f, err := service.ParseExportFormat("YML"); err != nil || f != service.FormatYAML {
		t.Fatalf("expected yml alias, got %q %v", f, err)
	}
}
