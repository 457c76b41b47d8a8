package date

import (
	"testing"
	"time"
)

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    YearMonth
		wantErr bool
	}{
		{"2024-03", YearMonth{2024, time.March}, false},
		{"2024-12", YearMonth{2024, time.December}, false},
		{"2024-3", YearMonth{}, true},
		{"2024-13", YearMonth{}, true},
		{"2024/03", YearMonth{}, true},
		{"", YearMonth{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseYearMonth(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseYearMonth(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseYearMonth(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestYearMonthBounds(t *testing.T) {
	m := YearMonth{2024, time.February}
	if got, want := m.First(), New(2024, time.February, 1); got != want {
		t.Errorf("First() = %v, want %v", got, want)
	}
	if got, want := m.Last(), New(2024, time.February, 29); got != want {
		t.Errorf("Last() = %v, want %v", got, want)
	}
	if got, want := m.Add(-2), (YearMonth{2023, time.December}); got != want {
		t.Errorf("Add(-2) = %v, want %v", got, want)
	}
	if got, want := m.String(), "2024-02"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMonths(t *testing.T) {
	months := Months(2024)
	if len(months) != 12 {
		t.Fatalf("len(Months()) = %d, want 12", len(months))
	}
	for i := 1; i < len(months); i++ {
		if !months[i-1].Before(months[i]) {
			t.Errorf("Months()[%d] = %v is not before %v", i-1, months[i-1], months[i])
		}
	}
}
