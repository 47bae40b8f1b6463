package account

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"buho/internal/domain/banklink"
	"buho/internal/infrastructure/bankfeed"
)

// Normalize converts raw aggregator account records into the dashboard's
// account model. A record with no ID or an unparseable current balance is
// skipped and reported in the returned problem list; one bad record never
// fails the batch.
func Normalize(raw []bankfeed.RawAccount, link *banklink.BankLink) ([]Account, []string) {
	accounts := make([]Account, 0, len(raw))
	var problems []string

	for i, r := range raw {
		if r.AccountID == "" {
			problems = append(problems, fmt.Sprintf("record %d: missing account ID", i))
			continue
		}

		current, err := decimal.NewFromString(r.Balances.Current.String())
		if err != nil {
			problems = append(problems, fmt.Sprintf("account %s: unparseable current balance %q", r.AccountID, r.Balances.Current))
			continue
		}

		acc := Account{
			ID:              r.AccountID,
			LinkID:          link.ID,
			InstitutionName: link.InstitutionName,
			Name:            r.Name,
			OfficialName:    r.OfficialName,
			Type:            normalizeType(r.Type, r.Subtype),
			Subtype:         r.Subtype,
			CurrentBalance:  current,
		}

		if r.Balances.Available != nil {
			available, err := decimal.NewFromString(r.Balances.Available.String())
			if err == nil {
				acc.AvailableBalance = &available
			} else {
				// A bad available balance degrades the record, not the batch
				problems = append(problems, fmt.Sprintf("account %s: unparseable available balance %q", r.AccountID, *r.Balances.Available))
			}
		}

		accounts = append(accounts, acc)
	}

	return accounts, problems
}

// normalizeType maps the aggregator's type/subtype pair onto the dashboard
// vocabulary. Anything unrecognized lands in "other" rather than erroring.
func normalizeType(rawType, rawSubtype string) Type {
	switch strings.ToLower(rawType) {
	case "depository":
		switch strings.ToLower(rawSubtype) {
		case "checking":
			return TypeChecking
		case "savings":
			return TypeSavings
		default:
			return TypeOther
		}
	case "credit":
		return TypeCredit
	default:
		return TypeOther
	}
}

// ComputeAggregate sums current balances across all accounts and counts the
// distinct links they came from. An empty slice yields a zero aggregate.
func ComputeAggregate(accounts []Account) AggregateBalance {
	total := decimal.Zero
	links := make(map[string]struct{})

	for _, acc := range accounts {
		total = total.Add(acc.CurrentBalance)
		links[acc.LinkID.String()] = struct{}{}
	}

	return AggregateBalance{
		TotalBanks:          len(links),
		TotalCurrentBalance: total,
	}
}
