package household

import "slices"

// NetAssetCategory is a canonical net-worth bucket such as real estate or liquid assets.
type NetAssetCategory struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// CategoryMappings are the lookup tables bucketing raw account types into net-asset
// categories. Any type may map to several categories.
type CategoryMappings struct {
	Categories []NetAssetCategory `json:"categories" yaml:"categories"`
	// Assets maps an asset type to net-asset category codes.
	Assets map[string][]string `json:"assets" yaml:"assets"`
	// Liabilities maps a liability type to net-asset category codes.
	Liabilities map[string][]string `json:"liabilities" yaml:"liabilities"`
	// AssetLiabilities maps an asset type to the liability types financing it.
	AssetLiabilities map[string][]string `json:"assetLiabilities" yaml:"assetLiabilities"`
}

// DefaultRealEstateCategory is the net-asset category code of real estate.
const DefaultRealEstateCategory = "REAL_ESTATE"

// DefaultMappings returns the mappings used when the store defines none.
func DefaultMappings() CategoryMappings {
	return CategoryMappings{
		Categories: []NetAssetCategory{
			{Code: "LIQUID", Name: "Liquid Assets"},
			{Code: "INVESTMENT", Name: "Investments"},
			{Code: DefaultRealEstateCategory, Name: "Real Estate"},
			{Code: "OTHER", Name: "Other"},
		},
		Assets: map[string][]string{
			Cash:           {"LIQUID"},
			Stocks:         {"INVESTMENT"},
			RetirementFund: {"INVESTMENT"},
			Cryptocurrency: {"INVESTMENT"},
			PreciousMetals: {"INVESTMENT"},
			Insurance:      {"OTHER"},
			RealEstate:     {DefaultRealEstateCategory},
			Other:          {"OTHER"},
		},
		Liabilities: map[string][]string{
			Mortgage:     {DefaultRealEstateCategory},
			CreditCard:   {"LIQUID"},
			PersonalLoan: {"LIQUID"},
			AutoLoan:     {"OTHER"},
			StudentLoan:  {"OTHER"},
			BusinessLoan: {"OTHER"},
			Other:        {"OTHER"},
		},
		AssetLiabilities: map[string][]string{
			RealEstate: {Mortgage},
		},
	}
}

// categoriesOf returns the net-asset categories of an account type.
func (m CategoryMappings) categoriesOf(kind Kind, typ string) []string {
	if kind == Liability {
		return m.Liabilities[typ]
	}
	return m.Assets[typ]
}

// in reports whether an account type maps to a net-asset category.
func (m CategoryMappings) in(kind Kind, typ, code string) bool {
	return slices.Contains(m.categoriesOf(kind, typ), code)
}

// has reports whether a net-asset category code is declared or mapped.
func (m CategoryMappings) has(code string) bool {
	for _, c := range m.Categories {
		if c.Code == code {
			return true
		}
	}
	for _, table := range []map[string][]string{m.Assets, m.Liabilities} {
		for _, codes := range table {
			if slices.Contains(codes, code) {
				return true
			}
		}
	}
	return false
}

// name returns the display name of a net-asset category code.
func (m CategoryMappings) name(code string) string {
	for _, c := range m.Categories {
		if c.Code == code {
			return c.Name
		}
	}
	return code
}

// IsEmpty reports whether no table is defined.
func (m CategoryMappings) IsEmpty() bool {
	return len(m.Assets) == 0 && len(m.Liabilities) == 0 && len(m.Categories) == 0
}
