package transaction

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"buho/internal/domain/banklink"
	"buho/internal/infrastructure/bankfeed"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func tx(id, date string, seq int) Transaction {
	return Transaction{ID: id, PostedDate: day(date), Seq: seq}
}

func TestMerge_NoLists(t *testing.T) {
	merged := Merge(nil)
	if len(merged) != 0 {
		t.Errorf("got %d transactions, want 0", len(merged))
	}

	merged = Merge([][]Transaction{{}, {}, {}})
	if len(merged) != 0 {
		t.Errorf("got %d transactions from empty lists, want 0", len(merged))
	}
}

func TestMerge_SingleList(t *testing.T) {
	list := []Transaction{
		tx("a", "2026-08-30", 0),
		tx("b", "2026-08-29", 1),
	}

	merged := Merge([][]Transaction{list})
	if len(merged) != 2 {
		t.Fatalf("got %d transactions, want 2", len(merged))
	}
	if merged[0].ID != "a" || merged[1].ID != "b" {
		t.Errorf("order = [%s %s], want [a b]", merged[0].ID, merged[1].ID)
	}
}

func TestMerge_InterleavesByDate(t *testing.T) {
	listA := []Transaction{
		tx("a1", "2026-08-30", 0),
		tx("a2", "2026-08-27", 1),
	}
	listB := []Transaction{
		tx("b1", "2026-08-29", 0),
		tx("b2", "2026-08-28", 1),
	}

	merged := Merge([][]Transaction{listA, listB})

	want := []string{"a1", "b1", "b2", "a2"}
	for i, id := range want {
		if merged[i].ID != id {
			t.Errorf("merged[%d] = %s, want %s", i, merged[i].ID, id)
		}
	}
}

func TestMerge_SameDateTieBreak(t *testing.T) {
	// Same date everywhere: provider order (Seq) wins, then ID
	listA := []Transaction{
		tx("zzz", "2026-08-30", 0),
		tx("aaa", "2026-08-30", 1),
	}
	listB := []Transaction{
		tx("mmm", "2026-08-30", 0),
	}

	merged := Merge([][]Transaction{listA, listB})

	// Seq 0 entries first, ordered by ID; then seq 1
	want := []string{"mmm", "zzz", "aaa"}
	for i, id := range want {
		if merged[i].ID != id {
			t.Errorf("merged[%d] = %s, want %s", i, merged[i].ID, id)
		}
	}
}

func TestMerge_Deterministic(t *testing.T) {
	listA := []Transaction{tx("a", "2026-08-30", 0), tx("c", "2026-08-30", 1)}
	listB := []Transaction{tx("b", "2026-08-30", 0), tx("d", "2026-08-29", 1)}
	listC := []Transaction{tx("e", "2026-08-31", 0)}

	first := Merge([][]Transaction{listA, listB, listC})
	for i := 0; i < 10; i++ {
		again := Merge([][]Transaction{listA, listB, listC})
		for j := range first {
			if first[j].ID != again[j].ID {
				t.Fatalf("run %d: position %d changed from %s to %s", i, j, first[j].ID, again[j].ID)
			}
		}
	}
}

func TestFromRaw_SkipsMalformed(t *testing.T) {
	link := &banklink.BankLink{ID: uuid.New()}
	raw := []bankfeed.RawTransaction{
		{TransactionID: "t1", AccountID: "acc-1", Amount: "12.50", Date: "2026-08-30", Name: "Coffee"},
		{TransactionID: "", Amount: "1.00", Date: "2026-08-30"},
		{TransactionID: "t3", Amount: "oops", Date: "2026-08-30"},
		{TransactionID: "t4", Amount: "3.00", Date: "August 30th"},
		{TransactionID: "t5", AccountID: "acc-1", Amount: "-42.00", Date: "2026-08-31", Name: "Refund"},
	}

	txs, problems := FromRaw(raw, link)

	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if len(problems) != 3 {
		t.Fatalf("got %d problems, want 3: %v", len(problems), problems)
	}

	// Sorted into display order: newest first
	if txs[0].ID != "t5" || txs[1].ID != "t1" {
		t.Errorf("order = [%s %s], want [t5 t1]", txs[0].ID, txs[1].ID)
	}
	if !txs[1].Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("Amount = %s, want 12.50", txs[1].Amount)
	}
	if txs[0].LinkID != link.ID {
		t.Error("LinkID not propagated")
	}
}
