package fxrates

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

// frankfurter serves a fixed rate table for any date.
func frankfurter(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		day := strings.TrimPrefix(r.URL.Path, "/")
		switch {
		case day == "latest":
		case day == "1999-01-01":
			http.Error(w, "not found", http.StatusNotFound)
			return
		case r.URL.Query().Get("from") != "USD":
			http.Error(w, "bad base", http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"amount":1.0,"base":"USD","date":%q,"rates":{"EUR":0.8,"JPY":157.23,"GBP":0}}`, day)
	}))
}

func TestClient_Fetch(t *testing.T) {
	srv := frankfurter(t, nil)
	defer srv.Close()
	c := New(srv.URL + "/")
	on := date.MustParse("2024-06-03")

	rates, err := c.Fetch(context.Background(), on, "EUR", "JPY", "CHF")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(rates) != 2 {
		t.Fatalf("Fetch() = %v, want EUR and JPY", rates)
	}
	tests := []struct {
		currency string
		want     string
	}{
		{"EUR", "1.25"},
		{"JPY", "0.00636011"},
	}
	for i, tt := range tests {
		got := rates[i]
		if got.Currency != tt.currency || !got.RateToUSD.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("rate %d = %s %v, want %s %s", i, got.Currency, got.RateToUSD, tt.currency, tt.want)
		}
		if got.Effective != on || !got.Active {
			t.Errorf("rate %d = %v active %v, want effective %v and active", i, got.Effective, got.Active, on)
		}
	}
}

func TestClient_Fetch_Errors(t *testing.T) {
	srv := frankfurter(t, nil)
	defer srv.Close()
	c := New(srv.URL)

	if _, err := c.Fetch(context.Background(), date.MustParse("1999-01-01"), "EUR"); err == nil {
		t.Error("Fetch() on a missing date succeeded, want an error")
	}
	if _, err := c.Fetch(context.Background(), date.MustParse("2024-06-03"), "GBP"); err == nil {
		t.Error("Fetch() of a zero rate succeeded, want an error")
	}
}

func TestClient_FetchDates(t *testing.T) {
	var calls atomic.Int32
	srv := frankfurter(t, &calls)
	defer srv.Close()
	c := New(srv.URL)
	c.Parallel = 2

	dates := []date.Date{date.MustParse("2024-12-31"), date.MustParse("2023-12-31"), date.MustParse("2022-12-31")}
	rates, err := c.FetchDates(context.Background(), dates, "EUR")
	if err != nil {
		t.Fatalf("FetchDates() error = %v", err)
	}
	if got, want := calls.Load(), int32(3); got != want {
		t.Errorf("FetchDates() made %d requests, want %d", got, want)
	}
	if len(rates) != 3 || rates[0].Effective != dates[2] || rates[2].Effective != dates[0] {
		t.Errorf("FetchDates() = %v, want one rate per date, oldest first", rates)
	}

	dates = append(dates, date.MustParse("1999-01-01"))
	if _, err := c.FetchDates(context.Background(), dates, "EUR"); err == nil {
		t.Error("FetchDates() with a failing date succeeded, want an error")
	}
}

func TestClient_Available(t *testing.T) {
	srv := frankfurter(t, nil)
	if !New(srv.URL).Available(context.Background()) {
		t.Error("Available() = false, want true")
	}
	srv.Close()
	if New(srv.URL).Available(context.Background()) {
		t.Error("Available() on a closed server = true, want false")
	}
}
