package date

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MonthFormat is the "YYYY-MM" layout of a YearMonth.
const MonthFormat = "2006-01"

// YearMonth identifies a calendar month, the period unit of transactions, expenses and
// incomes.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d Date) YearMonth { return YearMonth{d.Year(), d.Month()} }

// ParseYearMonth parses a strict "YYYY-MM" string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(MonthFormat, s)
	if err != nil || len(s) != len(MonthFormat) {
		return YearMonth{}, fmt.Errorf("invalid period %q want format %q", s, "YYYY-MM")
	}
	return YearMonth{t.Year(), t.Month()}, nil
}

// First returns the first day of the month.
func (m YearMonth) First() Date { return New(m.Year, m.Month, 1) }

// Last returns the last day of the month.
func (m YearMonth) Last() Date { return New(m.Year, m.Month+1, 0) }

// Add returns the month i months after m.
func (m YearMonth) Add(i int) YearMonth { return MonthOf(m.First().AddMonth(i)) }

// Before reports whether m is strictly before x.
func (m YearMonth) Before(x YearMonth) bool {
	return m.Year < x.Year || (m.Year == x.Year && m.Month < x.Month)
}

// IsZero reports whether m is the zero month.
func (m YearMonth) IsZero() bool { return m == YearMonth{} }

func (m YearMonth) String() string { return fmt.Sprintf("%04d-%02d", m.Year, m.Month) }

// Months returns the twelve months of a year.
func Months(year int) []YearMonth {
	months := make([]YearMonth, 12)
	for i := range months {
		months[i] = YearMonth{year, time.Month(i + 1)}
	}
	return months
}

func (m YearMonth) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

func (m *YearMonth) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	x, err := ParseYearMonth(s)
	if err != nil {
		return err
	}
	*m = x
	return nil
}

// Value stores the month as "YYYY-MM" text, which sorts chronologically.
func (m YearMonth) Value() (driver.Value, error) { return m.String(), nil }

func (m *YearMonth) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return m.Scan(string(v))
	case string:
		x, err := ParseYearMonth(v)
		if err != nil {
			return err
		}
		*m = x
		return nil
	default:
		return fmt.Errorf("cannot scan %T into a period", src)
	}
}
