package household

import (
	"testing"

	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

func TestSeries(t *testing.T) {
	s := NewSeries(date.Monthly, USD, "Checking")
	s.Add(day("2024-03-15"), dec("5"))
	s.Add(day("2024-01-31"), dec("1"))
	s.Add(day("2024-01-01"), dec("2"))
	s.Add(day("2024-03-01"), decimal.Zero)

	points := s.Points()
	if got, want := len(points), 2; got != want {
		t.Fatalf("len(Points()) = %d, want %d", got, want)
	}
	tests := []struct {
		period string
		on     date.Date
		value  Money
	}{
		{"2024-01", day("2024-01-01"), usd(3)},
		{"2024-03", day("2024-03-01"), usd(5)},
	}
	for i, tt := range tests {
		p := points[i]
		if p.Period != tt.period || p.Date != tt.on || p.Label != "Checking" {
			t.Errorf("Points()[%d] = %v %v %q, want %v %v %q", i, p.Period, p.Date, p.Label, tt.period, tt.on, "Checking")
		}
		checkMoney(t, "Points()["+tt.period+"]", p.Value, tt.value)
	}
}

func TestSeries_Keys(t *testing.T) {
	tests := []struct {
		period date.Period
		want   string
	}{
		{date.Daily, "2024-07-14"},
		{date.Monthly, "2024-07"},
		{date.Yearly, "2024"},
	}
	for _, tt := range tests {
		s := NewSeries(tt.period, USD, "")
		s.Add(day("2024-07-14"), dec("1"))
		if got := s.Points()[0].Period; got != tt.want {
			t.Errorf("%v key = %q, want %q", tt.period, got, tt.want)
		}
	}
}

func TestLastPerPeriod(t *testing.T) {
	days := []date.Date{day("2023-06-30"), day("2023-12-31"), day("2024-01-01"), day("2024-06-30"), day("2025-01-01")}
	got := LastPerPeriod(date.Yearly, days, func(d date.Date) date.Date { return d })
	want := []date.Date{day("2023-12-31"), day("2024-06-30"), day("2025-01-01")}
	if len(got) != len(want) {
		t.Fatalf("LastPerPeriod() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LastPerPeriod()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
