package household

import "github.com/shopspring/decimal"

// AnnualSummary is the materialized net-worth rollup of a family for a year, keyed by
// (FamilyID, Year, Currency). Currency is [All] or a currency code, amounts are in
// ReportingCurrency.
type AnnualSummary struct {
	FamilyID          int64  `json:"familyId"`
	Year              int    `json:"year"`
	Currency          string `json:"currency"`
	ReportingCurrency string `json:"reportingCurrency"`

	TotalAssets        decimal.Decimal            `json:"totalAssets"`
	TotalLiabilities   decimal.Decimal            `json:"totalLiabilities"`
	NetWorth           decimal.Decimal            `json:"netWorth"`
	AssetBreakdown     map[string]decimal.Decimal `json:"assetBreakdown"`
	LiabilityBreakdown map[string]decimal.Decimal `json:"liabilityBreakdown"`
	NetAssetBreakdown  map[string]decimal.Decimal `json:"netAssetBreakdown"`

	// Year over year changes, nil when the previous year is unknown.
	AssetsChange         *decimal.Decimal `json:"yoyAssetChange"`
	AssetsChangePct      *Percent         `json:"yoyAssetChangePct"`
	LiabilitiesChange    *decimal.Decimal `json:"yoyLiabilityChange"`
	LiabilitiesChangePct *Percent         `json:"yoyLiabilityChangePct"`
	NetWorthChange       *decimal.Decimal `json:"yoyNetWorthChange"`
	NetWorthChangePct    *Percent         `json:"yoyNetWorthChangePct"`

	RealEstateAssets               decimal.Decimal  `json:"realEstateAssets"`
	RealEstateLiabilities          decimal.Decimal  `json:"realEstateLiabilities"`
	RealEstateNetWorth             decimal.Decimal  `json:"realEstateNetWorth"`
	NonRealEstateNetWorth          decimal.Decimal  `json:"nonRealEstateNetWorth"`
	RealEstateNetWorthChange       *decimal.Decimal `json:"yoyRealEstateNetWorthChange"`
	RealEstateNetWorthChangePct    *Percent         `json:"yoyRealEstateNetWorthChangePct"`
	NonRealEstateNetWorthChange    *decimal.Decimal `json:"yoyNonRealEstateNetWorthChange"`
	NonRealEstateNetWorthChangePct *Percent         `json:"yoyNonRealEstateNetWorthChangePct"`

	RealEstateAssetRatio      *Percent `json:"realEstateAssetRatio"`
	RealEstateNetWorthRatio   *Percent `json:"realEstateNetWorthRatio"`
	RealEstateToNetWorthRatio *Percent `json:"realEstateToNetWorthRatio"`
}

// AnnualExpenseSummary is the materialized expense rollup of a family for a year and a major
// category, in USD. MajorID 0 is the total row.
type AnnualExpenseSummary struct {
	FamilyID  int64           `json:"familyId"`
	Year      int             `json:"year"`
	MajorID   int64           `json:"majorId"`
	MajorName string          `json:"majorName"`
	Base      decimal.Decimal `json:"baseExpense"`
	Special   decimal.Decimal `json:"specialExpense"`
	Actual    decimal.Decimal `json:"actualExpense"`
}

// change returns the delta between two years and its percentage; both are nil when there is
// no previous value, the percentage alone is nil when the previous value is zero.
func change(current decimal.Decimal, previous *decimal.Decimal) (*decimal.Decimal, *Percent) {
	if previous == nil {
		return nil, nil
	}
	delta := current.Sub(*previous)
	return &delta, optionalRatio(delta, *previous)
}
