package household

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/household/logger"
	"github.com/shopspring/decimal"
)

func TestAnalyzer_AnnualSummary(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	got, err := a.AnnualSummary(ctx, family, 2024, All)
	if err != nil {
		t.Fatalf("AnnualSummary() error = %v", err)
	}
	if got.Currency != All || got.ReportingCurrency != USD {
		t.Errorf("currency = %q in %q, want %q in %q", got.Currency, got.ReportingCurrency, All, USD)
	}
	checkDecimal(t, "TotalAssets", got.TotalAssets, "373440")
	checkDecimal(t, "TotalLiabilities", got.TotalLiabilities, "190600")
	checkDecimal(t, "NetWorth", got.NetWorth, "182840")
	checkDecimal(t, "AssetBreakdown[STOCKS]", got.AssetBreakdown[Stocks], "1440")
	checkDecimal(t, "LiabilityBreakdown[CREDIT_CARD]", got.LiabilityBreakdown[CreditCard], "600")
	checkDecimal(t, "NetAssetBreakdown[LIQUID]", got.NetAssetBreakdown["LIQUID"], "1400")

	checkDecimal(t, "RealEstateAssets", got.RealEstateAssets, "320000")
	checkDecimal(t, "RealEstateLiabilities", got.RealEstateLiabilities, "190000")
	checkDecimal(t, "RealEstateNetWorth", got.RealEstateNetWorth, "130000")
	checkDecimal(t, "NonRealEstateNetWorth", got.NonRealEstateNetWorth, "52840")
	ratios := []struct {
		name string
		got  *Percent
		want Percent
	}{
		{"RealEstateAssetRatio", got.RealEstateAssetRatio, 85.69},
		{"RealEstateNetWorthRatio", got.RealEstateNetWorthRatio, 71.10},
		{"RealEstateToNetWorthRatio", got.RealEstateToNetWorthRatio, 175.02},
	}
	for _, r := range ratios {
		if r.got == nil || !r.got.Equal(r.want) {
			t.Errorf("%s = %v, want %v", r.name, r.got, r.want)
		}
	}

	// nothing persisted for 2023.
	if got.NetWorthChange != nil || got.NetWorthChangePct != nil || got.AssetsChange != nil {
		t.Errorf("year over year changes without a previous summary: %v %v", got.NetWorthChange, got.NetWorthChangePct)
	}
}

func TestAnalyzer_AnnualSummary_ZeroDenominators(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	got, err := a.AnnualSummary(ctx, family, 2020, All)
	if err != nil {
		t.Fatalf("AnnualSummary() error = %v", err)
	}
	if !got.NetWorth.IsZero() {
		t.Errorf("NetWorth = %v, want 0", got.NetWorth)
	}
	if got.RealEstateAssetRatio != nil || got.RealEstateNetWorthRatio != nil || got.RealEstateToNetWorthRatio != nil {
		t.Errorf("ratios over zero are defined")
	}
}

func TestAnalyzer_RecomputeAnnualSummary(t *testing.T) {
	a, m := newTestAnalyzer(t)
	rows2023, err := a.RecomputeAnnualSummary(ctx, family, 2023)
	if err != nil {
		t.Fatalf("RecomputeAnnualSummary(2023) error = %v", err)
	}
	var keys []string
	for _, r := range rows2023 {
		keys = append(keys, r.Currency)
	}
	if got, want := len(keys), 3; got != want || keys[0] != All || keys[1] != "EUR" || keys[2] != USD {
		t.Fatalf("recomputed currencies = %v, want [All EUR USD]", keys)
	}

	if _, err := a.RecomputeAnnualSummary(ctx, family, 2024); err != nil {
		t.Fatalf("RecomputeAnnualSummary(2024) error = %v", err)
	}
	all, found, err := m.AnnualSummary(ctx, family, 2024, All)
	if err != nil || !found {
		t.Fatalf("AnnualSummary(2024, All) = %v, %v", found, err)
	}
	changes := []struct {
		name  string
		delta *decimal.Decimal
		pct   *Percent
		want  string
		wantP Percent
	}{
		{"NetWorth", all.NetWorthChange, all.NetWorthChangePct, "80790", 79.17},
		{"Assets", all.AssetsChange, all.AssetsChangePct, "71390", 23.64},
		{"Liabilities", all.LiabilitiesChange, all.LiabilitiesChangePct, "-9400", -4.70},
	}
	for _, c := range changes {
		if c.delta == nil || c.pct == nil {
			t.Errorf("%s change is undefined", c.name)
			continue
		}
		checkDecimal(t, c.name+" change", *c.delta, c.want)
		if !c.pct.Equal(c.wantP) {
			t.Errorf("%s change = %v, want %v", c.name, *c.pct, c.wantP)
		}
	}

	// no euro liability at the end of 2023: the change is known, its percentage is not.
	euros, _, _ := m.AnnualSummary(ctx, family, 2024, "EUR")
	if euros.LiabilitiesChange == nil || !euros.LiabilitiesChange.Equal(dec("500")) {
		t.Errorf("EUR liabilities change = %v, want 500", euros.LiabilitiesChange)
	}
	if euros.LiabilitiesChangePct != nil {
		t.Errorf("EUR liabilities change = %v, want undefined", *euros.LiabilitiesChangePct)
	}
}

func TestAnalyzer_RecomputeAnnualSummary_Logs(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	buf := &bytes.Buffer{}
	ctx := logger.WithContext(ctx, logger.NewWithWriter(buf))
	if _, err := a.RecomputeAnnualSummary(ctx, family, 2024); err != nil {
		t.Fatalf("RecomputeAnnualSummary() error = %v", err)
	}
	for _, want := range []string{`"run":"`, `"family":1`, `"year":2024`, `"rows":3`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log = %q, want %s", buf.String(), want)
		}
	}
}

func TestAnalyzer_RecomputeAnnualSummary_NoPartialWrite(t *testing.T) {
	a, m := newTestAnalyzer(t, func(d *Dataset) {
		d.Accounts = append(d.Accounts, Account{ID: 30, FamilyID: family, Name: "Swiss", Kind: Asset, Type: Cash, Currency: "CHF", Active: true})
		d.Valuations = append(d.Valuations, Valuation{ID: 30, AccountID: 30, Date: year2024, Amount: dec("10")})
	})
	previous := []AnnualSummary{{FamilyID: family, Year: 2024, Currency: All, NetWorth: dec("1")}}
	if err := m.ReplaceAnnualSummaries(ctx, family, 2024, previous); err != nil {
		t.Fatal(err)
	}

	_, err := a.RecomputeAnnualSummary(ctx, family, 2024)
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) || cerr.Currency != "CHF" {
		t.Fatalf("RecomputeAnnualSummary() error = %v, want a *ConfigurationError for CHF", err)
	}
	got, found, _ := m.AnnualSummary(ctx, family, 2024, All)
	if !found || !got.NetWorth.Equal(dec("1")) {
		t.Errorf("persisted summary was modified: %v", got.NetWorth)
	}
	if _, found, _ := m.AnnualSummary(ctx, family, 2024, "CHF"); found {
		t.Errorf("partial summary was persisted")
	}
}

func TestChange(t *testing.T) {
	zero := decimal.Zero
	tests := []struct {
		name      string
		current   string
		previous  *decimal.Decimal
		wantDelta string
	}{
		{"absent", "10", nil, ""},
		{"zero", "10", &zero, "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, pct := change(dec(tt.current), tt.previous)
			if pct != nil {
				t.Errorf("change() percentage = %v, want undefined", *pct)
			}
			if tt.wantDelta == "" {
				if delta != nil {
					t.Errorf("change() delta = %v, want undefined", delta)
				}
				return
			}
			checkDecimal(t, "change() delta", *delta, tt.wantDelta)
		})
	}
}
