package account

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies an account into the dashboard's fixed vocabulary.
type Type string

const (
	TypeChecking Type = "checking"
	TypeSavings  Type = "savings"
	TypeCredit   Type = "credit"
	TypeOther    Type = "other"
)

// Account is a normalized account from one linked institution.
type Account struct {
	ID               string           `json:"id"`
	LinkID           uuid.UUID        `json:"link_id"`
	InstitutionName  string           `json:"institution_name"`
	Name             string           `json:"name"`
	OfficialName     string           `json:"official_name,omitempty"`
	Type             Type             `json:"type"`
	Subtype          string           `json:"subtype,omitempty"`
	CurrentBalance   decimal.Decimal  `json:"-"`
	AvailableBalance *decimal.Decimal `json:"-"`
}

// AggregateBalance summarizes a user's holdings across all linked banks.
type AggregateBalance struct {
	TotalBanks          int             `json:"totalBanks"`
	TotalCurrentBalance decimal.Decimal `json:"-"`
}
