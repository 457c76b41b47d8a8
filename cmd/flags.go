package cmd

import (
	"flag"
	"fmt"

	"github.com/etnz/household"
	"github.com/etnz/household/date"
)

// scopeFlags select the accounts and the date of a report.
type scopeFlags struct {
	date     string
	currency string
	user     int64
}

func (s *scopeFlags) register(f *flag.FlagSet) {
	f.StringVar(&s.date, "d", "", "Date of the report, YYYY-MM-DD (default today)")
	f.StringVar(&s.currency, "c", household.All, "Reporting currency: All converts every account to USD, a currency code keeps only its accounts")
	f.Int64Var(&s.user, "u", 0, "Report on a single user instead of the whole family")
}

// parse returns the scope and the date of the report.
func (s *scopeFlags) parse(family int64) (household.Scope, date.Date, error) {
	on, err := parseDate(s.date)
	if err != nil {
		return household.Scope{}, date.Date{}, err
	}
	return household.Scope{FamilyID: family, UserID: s.user}, on, nil
}

// parseDate parses a date flag, today when empty.
func parseDate(s string) (date.Date, error) {
	if s == "" {
		return date.Today(), nil
	}
	return date.Parse(s)
}

// yearFlag registers the -y flag, the current year by default.
func yearFlag(f *flag.FlagSet, year *int) {
	f.IntVar(year, "y", date.Today().Year(), "Year of the report")
}

// checkYear reports invalid years.
func checkYear(year int) error {
	if year < 1900 || year > 9999 {
		return fmt.Errorf("invalid year %d", year)
	}
	return nil
}
