package transaction

import (
	"errors"
	"fmt"
	"testing"
)

func makeTransactions(n int) []Transaction {
	txs := make([]Transaction, n)
	for i := 0; i < n; i++ {
		txs[i] = tx(fmt.Sprintf("t%03d", i), "2026-08-30", i)
	}
	return txs
}

func TestPaginate_InvalidArguments(t *testing.T) {
	items := makeTransactions(5)

	tests := []struct {
		name     string
		page     int
		pageSize int
	}{
		{"zero page", 0, 10},
		{"negative page", -1, 10},
		{"zero page size", 1, 0},
		{"negative page size", 1, -5},
		{"oversized page size", 1, maxPageSize + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Paginate(items, tt.page, tt.pageSize)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Paginate(%d, %d) error = %v, want ErrInvalidArgument", tt.page, tt.pageSize, err)
			}
		})
	}
}

func TestPaginate_Windows(t *testing.T) {
	items := makeTransactions(25)

	page, err := Paginate(items, 1, 10)
	if err != nil {
		t.Fatalf("Paginate() failed: %v", err)
	}
	if len(page.Items) != 10 {
		t.Errorf("page 1: got %d items, want 10", len(page.Items))
	}
	if page.TotalItems != 25 {
		t.Errorf("TotalItems = %d, want 25", page.TotalItems)
	}
	if page.Items[0].ID != "t000" {
		t.Errorf("first item = %s, want t000", page.Items[0].ID)
	}

	page, err = Paginate(items, 3, 10)
	if err != nil {
		t.Fatalf("Paginate() failed: %v", err)
	}
	if len(page.Items) != 5 {
		t.Errorf("last partial page: got %d items, want 5", len(page.Items))
	}
	if page.Items[0].ID != "t020" {
		t.Errorf("first item = %s, want t020", page.Items[0].ID)
	}
}

func TestPaginate_PastEnd(t *testing.T) {
	items := makeTransactions(5)

	page, err := Paginate(items, 10, 10)
	if err != nil {
		t.Fatalf("Paginate() past the end should not fail: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("got %d items, want 0", len(page.Items))
	}
	if page.TotalItems != 5 {
		t.Errorf("TotalItems = %d, want 5", page.TotalItems)
	}
}

func TestPaginate_Empty(t *testing.T) {
	page, err := Paginate(nil, 1, 20)
	if err != nil {
		t.Fatalf("Paginate() on empty list failed: %v", err)
	}
	if len(page.Items) != 0 || page.TotalItems != 0 {
		t.Errorf("expected empty page, got %+v", page)
	}
}

func TestPaginate_ConcatenationReproducesList(t *testing.T) {
	items := makeTransactions(17)

	var seen []string
	for p := 1; ; p++ {
		page, err := Paginate(items, p, 4)
		if err != nil {
			t.Fatalf("Paginate(%d) failed: %v", p, err)
		}
		if len(page.Items) == 0 {
			break
		}
		for _, it := range page.Items {
			seen = append(seen, it.ID)
		}
	}

	if len(seen) != 17 {
		t.Fatalf("concatenated %d items, want 17", len(seen))
	}
	for i, id := range seen {
		if id != items[i].ID {
			t.Errorf("position %d: got %s, want %s", i, id, items[i].ID)
		}
	}
}
