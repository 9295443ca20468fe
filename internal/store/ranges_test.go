package store

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestPresetRange(t *testing.T) {
	// Wednesday, 12 June 2024.
	now := time.Date(2024, 6, 12, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		preset    Preset
		wantStart civil.Date
		wantEnd   civil.Date
	}{
		{PresetToday, date(2024, 6, 12), date(2024, 6, 12)},
		{PresetYesterday, date(2024, 6, 11), date(2024, 6, 11)},
		// Monday through Sunday of the week before the current one.
		{PresetLastWeek, date(2024, 6, 3), date(2024, 6, 9)},
		{PresetThisMonth, date(2024, 6, 1), date(2024, 6, 12)},
		{PresetLastMonth, date(2024, 5, 1), date(2024, 5, 31)},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			start, end, err := PresetRange(tt.preset, now)
			if err != nil {
				t.Fatalf("PresetRange failed: %v", err)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("PresetRange(%s) = [%v, %v], want [%v, %v]",
					tt.preset, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestPresetRange_YearBoundary(t *testing.T) {
	// Wednesday, 1 January 2025.
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	start, end, err := PresetRange(PresetLastMonth, now)
	if err != nil {
		t.Fatalf("PresetRange failed: %v", err)
	}
	if start != date(2024, 12, 1) || end != date(2024, 12, 31) {
		t.Errorf("last-month across year = [%v, %v], want [2024-12-01, 2024-12-31]", start, end)
	}

	start, end, err = PresetRange(PresetLastWeek, now)
	if err != nil {
		t.Fatalf("PresetRange failed: %v", err)
	}
	if start != date(2024, 12, 23) || end != date(2024, 12, 29) {
		t.Errorf("last-week across year = [%v, %v], want [2024-12-23, 2024-12-29]", start, end)
	}
}

func TestPresetRange_MondayAnchor(t *testing.T) {
	// On a Monday, "last week" is the immediately preceding Mon-Sun block.
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	start, end, err := PresetRange(PresetLastWeek, now)
	if err != nil {
		t.Fatalf("PresetRange failed: %v", err)
	}
	if start != date(2024, 6, 3) || end != date(2024, 6, 9) {
		t.Errorf("last-week on a Monday = [%v, %v], want [2024-06-03, 2024-06-09]", start, end)
	}

	// On a Sunday, the current week still began on the previous Monday.
	now = time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	start, end, err = PresetRange(PresetLastWeek, now)
	if err != nil {
		t.Fatalf("PresetRange failed: %v", err)
	}
	if start != date(2024, 5, 27) || end != date(2024, 6, 2) {
		t.Errorf("last-week on a Sunday = [%v, %v], want [2024-05-27, 2024-06-02]", start, end)
	}
}

func TestPresetRange_Unknown(t *testing.T) {
	if _, _, err := PresetRange(Preset("quarterly"), time.Now()); err == nil {
		t.Error("expected error for unknown preset")
	}
}
