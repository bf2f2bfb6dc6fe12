package months

import (
	"testing"
	"time"
)

func TestIndexMonthAndYearOffset(t *testing.T) {
	tests := []struct {
		index      Index
		month      int
		yearOffset int
	}{
		{1, 1, 0},
		{12, 12, 0},
		{13, 1, 1},
		{27, 3, 2},
		{300, 12, 24},
	}

	for _, tt := range tests {
		t.Run(tt.index.String(), func(t *testing.T) {
			if m := tt.index.Month(); m != tt.month {
				t.Errorf("Month() expected %d, got %d", tt.month, m)
			}
			if y := tt.index.YearOffset(); y != tt.yearOffset {
				t.Errorf("YearOffset() expected %d, got %d", tt.yearOffset, y)
			}
			if back := FromMonthAndOffset(tt.month, tt.yearOffset); back != tt.index {
				t.Errorf("FromMonthAndOffset() expected %d, got %d", tt.index, back)
			}
		})
	}
}

func TestIndexString(t *testing.T) {
	expected := "Y03-03"
	if s := Index(27).String(); s != expected {
		t.Errorf("String() expected %q, got %q", expected, s)
	}
}

func TestIndexLabel(t *testing.T) {
	expected := "2027-02"
	if s := Index(14).Label(2026); s != expected {
		t.Errorf("Label() expected %q, got %q", expected, s)
	}
	tm := Index(14).Time(2026)
	if !tm.Equal(time.Date(2027, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Time() got %v", tm)
	}
}

func TestIndexCompare(t *testing.T) {
	if Index(3).Compare(Index(4)) != -1 || Index(4).Compare(Index(3)) != 1 || Index(4).Compare(Index(4)) != 0 {
		t.Error("Compare() returned unexpected ordering")
	}
}

func TestYears(t *testing.T) {
	tests := []struct{ months, years int }{{0, 0}, {1, 1}, {12, 1}, {13, 2}, {94, 8}, {300, 25}}
	for _, tt := range tests {
		if y := Years(tt.months); y != tt.years {
			t.Errorf("Years(%d) expected %d, got %d", tt.months, tt.years, y)
		}
	}
}

func TestNames(t *testing.T) {
	if ShortName(3) != "Mar" || SerbianName(3) != "Mart" || ShortName(0) != "?" {
		t.Error("unexpected month names")
	}
}
