// Package config reads the settings of the hh command from the environment and from an
// optional .env file, and the lookup tables from YAML files.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/household/logger"
	"github.com/joho/godotenv"
)

// Environment variables.
const (
	EnvDB                 = "HOUSEHOLD_DB"
	EnvData               = "HOUSEHOLD_DATA"
	EnvRatesFile          = "HOUSEHOLD_RATES_FILE"
	EnvRatesAPI           = "HOUSEHOLD_RATES_API"
	EnvLogLevel           = "HOUSEHOLD_LOG_LEVEL"
	EnvRealEstateCategory = "HOUSEHOLD_REAL_ESTATE_CATEGORY"
	EnvFamily             = "HOUSEHOLD_FAMILY"
	EnvGeminiModel        = "GEMINI_MODEL"
)

// DefaultRatesAPI is the Frankfurter compatible service used to fetch exchange rates.
const DefaultRatesAPI = "https://api.frankfurter.app"

// Config holds the settings of the hh command.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string
	// DataPath is a JSONL dataset analysed in memory instead of a database.
	DataPath string
	// RatesFile is a YAML file of fallback rates and category mappings.
	RatesFile string
	RatesAPI  string

	LogLevel           string
	RealEstateCategory string
	FamilyID           int64
	GeminiModel        string
}

// Load reads the configuration from the environment. Variables missing from the environment
// are read from the .env file at envPath, or from ./.env if it exists.
func Load(envPath ...string) (*Config, error) {
	file := map[string]string{}
	if len(envPath) > 0 && envPath[0] != "" {
		var err error
		if file, err = godotenv.Read(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else if f, err := godotenv.Read(); err == nil {
		file = f
	}
	get := func(key, defaultValue string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if v := file[key]; v != "" {
			return v
		}
		return defaultValue
	}

	cfg := &Config{
		DBPath:             get(EnvDB, ""),
		DataPath:           get(EnvData, ""),
		RatesFile:          get(EnvRatesFile, ""),
		RatesAPI:           get(EnvRatesAPI, DefaultRatesAPI),
		LogLevel:           get(EnvLogLevel, "info"),
		RealEstateCategory: get(EnvRealEstateCategory, ""),
		GeminiModel:        get(EnvGeminiModel, "gemini-2.5-flash"),
	}
	if family := get(EnvFamily, ""); family != "" {
		id, err := strconv.ParseInt(family, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q is not an integer", EnvFamily, family)
		}
		cfg.FamilyID = id
	}
	return cfg, nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DBPath != "" && c.DataPath != "" {
		errs = append(errs, fmt.Errorf("%s and %s are exclusive", EnvDB, EnvData))
	}
	if c.FamilyID < 0 {
		errs = append(errs, fmt.Errorf("invalid family %d: must be positive", c.FamilyID))
	}
	if c.RatesAPI != "" {
		if u, err := url.Parse(c.RatesAPI); err != nil {
			errs = append(errs, fmt.Errorf("invalid rates API %q: %w", c.RatesAPI, err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Errorf("invalid rates API scheme %q: must be http or https", u.Scheme))
		}
	}
	if l := strings.ToLower(c.LogLevel); l != "" && logger.ParseLevel(l).String() != l {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel))
	}
	if c.RatesFile != "" {
		if _, err := os.Stat(c.RatesFile); err != nil {
			errs = append(errs, fmt.Errorf("rates file: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}
