package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/etnz/household"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Tables are the lookup tables of a YAML rates file:
//
//	fallbackRates:
//	  EUR: "1.08"
//	mappings:
//	  categories:
//	    - {code: LIQUID, name: Liquid Assets}
//	  assets:
//	    CASH: [LIQUID]
type Tables struct {
	// FallbackRates are the USD values of one unit of each currency, used when the store has
	// no rate for it.
	FallbackRates map[string]string `yaml:"fallbackRates"`
	// Mappings are used when the store has no category mappings.
	Mappings *household.CategoryMappings `yaml:"mappings"`
}

// LoadTables reads a YAML tables file.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables file: %w", err)
	}
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &t, nil
}

// Rates returns the fallback rates by upper case currency code.
func (t *Tables) Rates() (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal, len(t.FallbackRates))
	for cur, v := range t.FallbackRates {
		r, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("fallback rate of %s: %w", cur, err)
		}
		if !r.IsPositive() {
			return nil, fmt.Errorf("fallback rate of %s: %s is not positive", cur, v)
		}
		rates[strings.ToUpper(cur)] = r
	}
	return rates, nil
}
