package household

import (
	"fmt"
	"strings"
)

// Kind tells whether an account holds an asset or a liability.
type Kind int

const (
	Asset Kind = iota
	Liability
)

func (k Kind) String() string {
	switch k {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "asset":
		*k = Asset
	case "liability":
		*k = Liability
	default:
		return &ValidationError{Field: "kind", Value: string(text), Reason: "want asset or liability"}
	}
	return nil
}

// Asset type codes.
const (
	Cash           = "CASH"
	Stocks         = "STOCKS"
	RetirementFund = "RETIREMENT_FUND"
	Insurance      = "INSURANCE"
	RealEstate     = "REAL_ESTATE"
	Cryptocurrency = "CRYPTOCURRENCY"
	PreciousMetals = "PRECIOUS_METALS"
	Other          = "OTHER"
)

// Liability type codes.
const (
	Mortgage     = "MORTGAGE"
	AutoLoan     = "AUTO_LOAN"
	CreditCard   = "CREDIT_CARD"
	PersonalLoan = "PERSONAL_LOAN"
	StudentLoan  = "STUDENT_LOAN"
	BusinessLoan = "BUSINESS_LOAN"
)

var assetTypeNames = map[string]string{
	Cash:           "Cash",
	Stocks:         "Stocks",
	RetirementFund: "Retirement Fund",
	Insurance:      "Insurance",
	RealEstate:     "Real Estate",
	Cryptocurrency: "Cryptocurrency",
	PreciousMetals: "Precious Metals",
	Other:          "Other",
}

var liabilityTypeNames = map[string]string{
	Mortgage:     "Mortgage",
	AutoLoan:     "Auto Loan",
	CreditCard:   "Credit Card",
	PersonalLoan: "Personal Loan",
	StudentLoan:  "Student Loan",
	BusinessLoan: "Business Loan",
	Other:        "Other",
}

// TypeName returns the display name of an asset or liability type code, or the code itself
// when it is unknown.
func TypeName(kind Kind, code string) string {
	names := assetTypeNames
	if kind == Liability {
		names = liabilityTypeNames
	}
	if name, ok := names[code]; ok {
		return name
	}
	return code
}

// TaxStatus is the tax treatment of an asset account.
type TaxStatus string

const (
	Taxable     TaxStatus = "TAXABLE"
	TaxFree     TaxStatus = "TAX_FREE"
	TaxDeferred TaxStatus = "TAX_DEFERRED"
)

// deductionOrder is the order in which liabilities are deducted from tax buckets.
var deductionOrder = []TaxStatus{Taxable, TaxFree, TaxDeferred}

func (s TaxStatus) Name() string {
	switch s {
	case TaxFree:
		return "Tax Free"
	case TaxDeferred:
		return "Tax Deferred"
	default:
		return "Taxable"
	}
}

// Account is an asset or a liability account owned by a member of a family.
type Account struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"userId"`
	FamilyID          int64     `json:"familyId"`
	Name              string    `json:"name"`
	Kind              Kind      `json:"kind"`
	Type              string    `json:"type"`
	Category          string    `json:"category,omitempty"`
	Currency          string    `json:"currency"`
	Active            bool      `json:"active"`
	PrimaryResidence  bool      `json:"primaryResidence,omitempty"`
	TaxStatus         TaxStatus `json:"taxStatus,omitempty"`
	Investment        bool      `json:"investment,omitempty"`
	LinkedLiabilityID int64     `json:"linkedLiabilityId,omitempty"`
}

// category returns the grouping label of the account, defaulting to its type name.
func (a Account) category() string {
	if a.Category != "" {
		return a.Category
	}
	return TypeName(a.Kind, a.Type)
}

func (a Account) taxStatus() TaxStatus {
	if a.TaxStatus == "" {
		return Taxable
	}
	return a.TaxStatus
}

// Scope selects the accounts of a family, or of a single member when UserID is not 0.
type Scope struct {
	FamilyID int64
	UserID   int64
}

// Contains reports whether the account belongs to the scope.
func (s Scope) Contains(a Account) bool {
	if s.UserID != 0 {
		return a.UserID == s.UserID
	}
	return a.FamilyID == s.FamilyID
}
