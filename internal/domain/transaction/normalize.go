package transaction

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"buho/internal/domain/banklink"
	"buho/internal/infrastructure/bankfeed"
)

const dateLayout = "2006-01-02"

// FromRaw converts one link's raw transaction records into the dashboard
// model. Records with no ID, an unparseable amount, or an unparseable date
// are skipped and reported; one bad record never fails the batch. The result
// is sorted into display order.
func FromRaw(raw []bankfeed.RawTransaction, link *banklink.BankLink) ([]Transaction, []string) {
	txs := make([]Transaction, 0, len(raw))
	var problems []string

	for i, r := range raw {
		if r.TransactionID == "" {
			problems = append(problems, fmt.Sprintf("record %d: missing transaction ID", i))
			continue
		}

		amount, err := decimal.NewFromString(r.Amount.String())
		if err != nil {
			problems = append(problems, fmt.Sprintf("transaction %s: unparseable amount %q", r.TransactionID, r.Amount))
			continue
		}

		posted, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			problems = append(problems, fmt.Sprintf("transaction %s: unparseable date %q", r.TransactionID, r.Date))
			continue
		}

		txs = append(txs, Transaction{
			ID:          r.TransactionID,
			AccountID:   r.AccountID,
			LinkID:      link.ID,
			Amount:      amount,
			Description: r.Name,
			Category:    r.Category,
			PostedDate:  posted,
			Pending:     r.Pending,
			Seq:         i,
		})
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return Less(txs[i], txs[j])
	})

	return txs, problems
}
