// Package fxrates fetches USD exchange rates from a Frankfurter compatible API
// (https://www.frankfurter.app).
package fxrates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/household"
	"github.com/etnz/household/date"
	"github.com/etnz/household/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultCurrencies are the currencies fetched when none are given.
var DefaultCurrencies = []string{"CNY", "EUR", "GBP", "JPY", "AUD", "CAD"}

// precision is the number of decimals of a rate to USD.
const precision = 8

// Client fetches rates from the API at Base.
type Client struct {
	Base string
	HTTP *http.Client
	// Parallel is the maximum number of concurrent requests of FetchDates.
	Parallel int
}

// New returns a client of the API at base.
func New(base string) *Client {
	return &Client{Base: strings.TrimSuffix(base, "/"), HTTP: http.DefaultClient, Parallel: 4}
}

// get performs an HTTP GET request and decodes the JSON response, numbers kept as text.
func (c *Client) get(ctx context.Context, addr string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("invalid response from %v: %w", resp.Request.URL.Host, err)
	}
	return jobj, nil
}

// Fetch returns the rates to USD of currencies on a date, effective on that date. The API
// publishes "1 USD = x currency", the rate to USD is 1/x rounded to 8 decimals.
func (c *Client) Fetch(ctx context.Context, on date.Date, currencies ...string) ([]household.ExchangeRate, error) {
	log := logger.FromContext(ctx)
	if len(currencies) == 0 {
		currencies = DefaultCurrencies
	}
	addr := fmt.Sprintf("%s/%s?from=USD&to=%s", c.Base, on, url.QueryEscape(strings.Join(currencies, ",")))
	log.Debug().Str("url", addr).Msg("fetching exchange rates")
	jobj, err := c.get(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("error fetching rates of %s: %w", on, err)
	}

	var rates []household.ExchangeRate
	for _, cur := range currencies {
		path := "$.rates." + cur
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			log.Warn().Str("currency", cur).Str("date", on.String()).Msg("no rate in response")
			continue
		}
		fromUSD, err := decimal.NewFromString(fmt.Sprint(jval))
		if err != nil {
			return nil, fmt.Errorf("error parsing %q: %v: %w", path, jval, err)
		}
		if !fromUSD.IsPositive() {
			return nil, fmt.Errorf("error parsing %q: rate %v is not positive", path, fromUSD)
		}
		rates = append(rates, household.ExchangeRate{
			Currency:  cur,
			Effective: on,
			RateToUSD: decimal.NewFromInt(1).DivRound(fromUSD, precision),
			Active:    true,
		})
	}
	log.Info().Str("date", on.String()).Int("rates", len(rates)).Msg("fetched exchange rates")
	return rates, nil
}

// FetchDates fetches the rates of several dates concurrently. Rates are sorted by date then
// currency.
func (c *Client) FetchDates(ctx context.Context, dates []date.Date, currencies ...string) ([]household.ExchangeRate, error) {
	var (
		mu  sync.Mutex
		all []household.ExchangeRate
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Parallel, 1))
	for _, on := range dates {
		g.Go(func() error {
			rates, err := c.Fetch(ctx, on, currencies...)
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, rates...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(all, func(a, b household.ExchangeRate) int {
		if n := a.Effective.Compare(b.Effective); n != 0 {
			return n
		}
		return strings.Compare(a.Currency, b.Currency)
	})
	return all, nil
}

// Available reports whether the API answers.
func (c *Client) Available(ctx context.Context) bool {
	_, err := c.get(ctx, c.Base+"/latest")
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("rates API health check failed")
	}
	return err == nil
}
