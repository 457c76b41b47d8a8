package date

import (
	"testing"
	"time"
)

func TestNewRange(t *testing.T) {
	d := New(2025, time.August, 13) // a Wednesday
	tests := []struct {
		period   Period
		from, to string
		key      string
	}{
		{Daily, "2025-08-13", "2025-08-13", "2025-08-13"},
		{Weekly, "2025-08-11", "2025-08-17", "2025-W33"},
		{Monthly, "2025-08-01", "2025-08-31", "2025-08"},
		{Quarterly, "2025-07-01", "2025-09-30", "2025-Q3"},
		{Yearly, "2025-01-01", "2025-12-31", "2025"},
	}
	for _, tt := range tests {
		t.Run(tt.period.String(), func(t *testing.T) {
			r := NewRange(d, tt.period)
			if got, want := r, (Range{From: MustParse(tt.from), To: MustParse(tt.to)}); got != want {
				t.Errorf("NewRange(%v) = %v, want %v", d, got, want)
			}
			if got, ok := r.Period(); !ok || got != tt.period {
				t.Errorf("NewRange(%v).Period() = %v, %v, want %v", d, got, ok, tt.period)
			}
			if got := tt.period.Key(d); got != tt.key {
				t.Errorf("Key(%v) = %q, want %q", d, got, tt.key)
			}
		})
	}
}

func TestRangeIdentifier(t *testing.T) {
	tests := []struct {
		r    Range
		want string
	}{
		{Year(2024), "2024"},
		{Range{From: MustParse("2024-12-30"), To: MustParse("2025-01-05")}, "2025-W01"},
		{Range{From: MustParse("2024-02-01"), To: MustParse("2024-02-29")}, "2024-02"},
		{Range{From: MustParse("2024-02-03"), To: MustParse("2024-02-10")}, "2024-02-03_2024-02-10"},
	}
	for _, tt := range tests {
		if got := tt.r.Identifier(); got != tt.want {
			t.Errorf("%v.Identifier() = %q, want %q", tt.r, got, tt.want)
		}
	}
	if _, ok := Until(MustParse("2024-02-03")).Period(); ok {
		t.Errorf("an open range has a period")
	}
}

func TestRangeContains(t *testing.T) {
	d := New(2024, time.March, 5)
	tests := []struct {
		name string
		r    Range
		want bool
	}{
		{"inside year", Year(2024), true},
		{"outside year", Year(2023), false},
		{"until same day", Until(d), true},
		{"until day before", Until(d.Add(-1)), false},
		{"from same day", Range{From: d}, true},
		{"from day after", Range{From: d.Add(1)}, false},
		{"unbounded", Range{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(d); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", d, got, tt.want)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"day", Daily, false},
		{"date", Daily, false},
		{"Weekly", Weekly, false},
		{"month", Monthly, false},
		{"QUARTER", Quarterly, false},
		{"yearly", Yearly, false},
		{"annual", Yearly, false},
		{"decade", Daily, true},
		{"", Daily, true},
	}
	for _, tt := range tests {
		got, err := ParsePeriod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePeriod(%q) error = %v, want error %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePeriod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
