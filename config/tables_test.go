package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/household"
	"github.com/shopspring/decimal"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTables(t *testing.T) {
	path := writeFile(t, `
fallbackRates:
  eur: "1.08"
  JPY: "0.0067"
mappings:
  categories:
    - {code: HOME, name: Home}
  assets:
    REAL_ESTATE: [HOME]
  liabilities:
    MORTGAGE: [HOME]
`)
	tables, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables() error = %v", err)
	}
	rates, err := tables.Rates()
	if err != nil {
		t.Fatalf("Rates() error = %v", err)
	}
	if got, want := rates["EUR"], decimal.RequireFromString("1.08"); !got.Equal(want) {
		t.Errorf("EUR = %v, want %v", got, want)
	}
	if len(rates) != 2 {
		t.Errorf("Rates() = %v, want 2 currencies", rates)
	}
	if tables.Mappings == nil {
		t.Fatal("Mappings = nil")
	}
	if got, want := tables.Mappings.Liabilities[household.Mortgage], []string{"HOME"}; len(got) != 1 || got[0] != want[0] {
		t.Errorf("mortgage categories = %v, want %v", got, want)
	}
}

func TestTables_Rates_Errors(t *testing.T) {
	for _, v := range []string{"abc", "0", "-1"} {
		tables := &Tables{FallbackRates: map[string]string{"EUR": v}}
		if _, err := tables.Rates(); err == nil {
			t.Errorf("Rates(%q) succeeded, want an error", v)
		}
	}
}

func TestLoadTables_Errors(t *testing.T) {
	if _, err := LoadTables(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("LoadTables(missing) succeeded, want an error")
	}
	if _, err := LoadTables(writeFile(t, "fallbackRates: [1, 2")); err == nil {
		t.Error("LoadTables(invalid) succeeded, want an error")
	}
}
