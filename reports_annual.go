package household

import (
	"context"
	"fmt"
	"slices"

	"github.com/etnz/household/date"
	"github.com/etnz/household/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnnualSummary computes the net-worth rollup of a family at the end of a year.
//
// With [All] every account is converted to USD with the rate map of December 31st, with a
// currency code only the accounts in that currency are summed. Year over year changes are
// relative to the persisted summary of the previous year with the same currency key; they are
// nil when there is none. The result is not persisted, see RecomputeAnnualSummary.
func (a *Analyzer) AnnualSummary(ctx context.Context, familyID int64, year int, currency string) (AnnualSummary, error) {
	mappings, err := a.mappings(ctx)
	if err != nil {
		return AnnualSummary{}, err
	}
	s, err := a.snapshot(ctx, Scope{FamilyID: familyID}, date.YearEnd(year), currency)
	if err != nil {
		return AnnualSummary{}, err
	}
	previous, found, err := a.store.AnnualSummary(ctx, familyID, year-1, s.mode.key())
	if err != nil {
		return AnnualSummary{}, fmt.Errorf("reading %d summary: %w", year-1, err)
	}
	return a.rollup(familyID, year, s, mappings, previous, found), nil
}

func (a *Analyzer) rollup(familyID int64, year int, s *snapshot, mappings CategoryMappings, previous AnnualSummary, found bool) AnnualSummary {
	assets, liabilities := sum(s.assets), sum(s.liabilities)
	netWorth := assets.Sub(liabilities)

	reAssets, reLiabilities := decimal.Zero, decimal.Zero
	for _, p := range s.assets {
		if mappings.in(Asset, p.Account.Type, a.realEstate) {
			reAssets = reAssets.Add(p.Value)
		}
	}
	for _, p := range s.liabilities {
		if mappings.in(Liability, p.Account.Type, a.realEstate) {
			reLiabilities = reLiabilities.Add(p.Value)
		}
	}
	reNetWorth := reAssets.Sub(reLiabilities)

	r := AnnualSummary{
		FamilyID:              familyID,
		Year:                  year,
		Currency:              s.mode.key(),
		ReportingCurrency:     s.mode.target,
		TotalAssets:           Round(assets),
		TotalLiabilities:      Round(liabilities),
		NetWorth:              Round(netWorth),
		AssetBreakdown:        byType(s.mode.target, s.assets).amounts(),
		LiabilityBreakdown:    byType(s.mode.target, s.liabilities).amounts(),
		NetAssetBreakdown:     netAssets(s.mode.target, mappings, s.assets, s.liabilities).amounts(),
		RealEstateAssets:      Round(reAssets),
		RealEstateLiabilities: Round(reLiabilities),
		RealEstateNetWorth:    Round(reNetWorth),
		NonRealEstateNetWorth: Round(netWorth.Sub(reNetWorth)),

		RealEstateAssetRatio:      optionalRatio(reAssets, assets),
		RealEstateNetWorthRatio:   optionalRatio(reNetWorth, netWorth),
		RealEstateToNetWorthRatio: optionalRatio(reAssets, netWorth),
	}
	if !found {
		return r
	}
	r.AssetsChange, r.AssetsChangePct = change(r.TotalAssets, &previous.TotalAssets)
	r.LiabilitiesChange, r.LiabilitiesChangePct = change(r.TotalLiabilities, &previous.TotalLiabilities)
	r.NetWorthChange, r.NetWorthChangePct = change(r.NetWorth, &previous.NetWorth)
	r.RealEstateNetWorthChange, r.RealEstateNetWorthChangePct = change(r.RealEstateNetWorth, &previous.RealEstateNetWorth)
	r.NonRealEstateNetWorthChange, r.NonRealEstateNetWorthChangePct = change(r.NonRealEstateNetWorth, &previous.NonRealEstateNetWorth)
	return r
}

// RecomputeAnnualSummary computes the summaries of a family for a year, for [All] and for
// every currency of the family's accounts, and replaces the persisted ones with them.
//
// Nothing is written if any computation fails.
func (a *Analyzer) RecomputeAnnualSummary(ctx context.Context, familyID int64, year int) ([]AnnualSummary, error) {
	log := logger.WithFields(logger.FromContext(ctx), map[string]any{"run": uuid.NewString(), "family": familyID, "year": year})
	ctx = logger.WithContext(ctx, log)

	assets, liabilities, err := a.accounts(ctx, Scope{FamilyID: familyID})
	if err != nil {
		return nil, err
	}
	var currencies []string
	for _, acc := range slices.Concat(assets, liabilities) {
		if !slices.Contains(currencies, acc.Currency) {
			currencies = append(currencies, acc.Currency)
		}
	}
	slices.Sort(currencies)

	rows := make([]AnnualSummary, 0, len(currencies)+1)
	for _, c := range slices.Concat([]string{All}, currencies) {
		r, err := a.AnnualSummary(ctx, familyID, year, c)
		if err != nil {
			log.Error().Err(err).Str("currency", c).Msg("annual summary recompute failed")
			return nil, fmt.Errorf("computing %d summary in %s: %w", year, c, err)
		}
		rows = append(rows, r)
	}
	if err := a.store.ReplaceAnnualSummaries(ctx, familyID, year, rows); err != nil {
		return nil, fmt.Errorf("replacing %d summaries: %w", year, err)
	}
	log.Info().Int("rows", len(rows)).Msg("annual summaries recomputed")
	return rows, nil
}
