package account

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"buho/internal/domain/banklink"
	"buho/internal/infrastructure/bankfeed"
)

func num(s string) json.Number {
	return json.Number(s)
}

func numPtr(s string) *json.Number {
	n := json.Number(s)
	return &n
}

func testLink(institution string) *banklink.BankLink {
	return &banklink.BankLink{ID: uuid.New(), InstitutionName: institution}
}

func TestNormalize_TypeMapping(t *testing.T) {
	tests := []struct {
		name     string
		rawType  string
		subtype  string
		expected Type
	}{
		{"checking", "depository", "checking", TypeChecking},
		{"savings", "depository", "savings", TypeSavings},
		{"credit card", "credit", "credit card", TypeCredit},
		{"money market falls through", "depository", "money market", TypeOther},
		{"unknown provider type", "loan", "mortgage", TypeOther},
		{"empty type", "", "", TypeOther},
		{"case insensitive", "DEPOSITORY", "Checking", TypeChecking},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []bankfeed.RawAccount{{
				AccountID: "acc-1",
				Type:      tt.rawType,
				Subtype:   tt.subtype,
				Balances:  bankfeed.RawBalances{Current: num("10.00")},
			}}

			accounts, problems := Normalize(raw, testLink("Test Bank"))
			if len(problems) != 0 {
				t.Fatalf("unexpected problems: %v", problems)
			}
			if len(accounts) != 1 {
				t.Fatalf("got %d accounts, want 1", len(accounts))
			}
			if accounts[0].Type != tt.expected {
				t.Errorf("Type = %q, want %q", accounts[0].Type, tt.expected)
			}
		})
	}
}

func TestNormalize_SkipsMalformedRecords(t *testing.T) {
	link := testLink("First Platypus Bank")
	raw := []bankfeed.RawAccount{
		{AccountID: "acc-1", Type: "depository", Subtype: "checking", Balances: bankfeed.RawBalances{Current: num("500.25")}},
		{AccountID: "", Type: "depository", Balances: bankfeed.RawBalances{Current: num("1.00")}},
		{AccountID: "acc-3", Type: "credit", Balances: bankfeed.RawBalances{Current: num("not-a-number")}},
		{AccountID: "acc-4", Type: "depository", Subtype: "savings", Balances: bankfeed.RawBalances{Current: num("123.25")}},
	}

	accounts, problems := Normalize(raw, link)

	if len(accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(accounts))
	}
	if len(problems) != 2 {
		t.Fatalf("got %d problems, want 2: %v", len(problems), problems)
	}
	if accounts[0].ID != "acc-1" || accounts[1].ID != "acc-4" {
		t.Errorf("kept wrong records: %s, %s", accounts[0].ID, accounts[1].ID)
	}
	if accounts[0].InstitutionName != "First Platypus Bank" {
		t.Errorf("InstitutionName = %q", accounts[0].InstitutionName)
	}
}

func TestNormalize_AvailableBalance(t *testing.T) {
	raw := []bankfeed.RawAccount{
		{AccountID: "acc-1", Balances: bankfeed.RawBalances{Current: num("100.00"), Available: numPtr("90.50")}},
		{AccountID: "acc-2", Balances: bankfeed.RawBalances{Current: num("200.00")}},
		{AccountID: "acc-3", Balances: bankfeed.RawBalances{Current: num("300.00"), Available: numPtr("garbage")}},
	}

	accounts, problems := Normalize(raw, testLink("Test Bank"))

	if len(accounts) != 3 {
		t.Fatalf("got %d accounts, want 3", len(accounts))
	}
	if accounts[0].AvailableBalance == nil || !accounts[0].AvailableBalance.Equal(decimal.RequireFromString("90.50")) {
		t.Error("acc-1 available balance wrong")
	}
	if accounts[1].AvailableBalance != nil {
		t.Error("acc-2 should have nil available balance")
	}
	// Bad available balance degrades, record survives
	if accounts[2].AvailableBalance != nil {
		t.Error("acc-3 should drop the bad available balance")
	}
	if len(problems) != 1 {
		t.Errorf("got %d problems, want 1", len(problems))
	}
}

func TestComputeAggregate(t *testing.T) {
	linkA := uuid.New()
	linkB := uuid.New()

	accounts := []Account{
		{ID: "acc-1", LinkID: linkA, CurrentBalance: decimal.RequireFromString("500.25")},
		{ID: "acc-2", LinkID: linkA, CurrentBalance: decimal.RequireFromString("100.00")},
		{ID: "acc-3", LinkID: linkB, CurrentBalance: decimal.RequireFromString("23.25")},
	}

	agg := ComputeAggregate(accounts)

	if agg.TotalBanks != 2 {
		t.Errorf("TotalBanks = %d, want 2", agg.TotalBanks)
	}
	if agg.TotalCurrentBalance.StringFixed(2) != "623.50" {
		t.Errorf("TotalCurrentBalance = %s, want 623.50", agg.TotalCurrentBalance.StringFixed(2))
	}
}

func TestComputeAggregate_Empty(t *testing.T) {
	agg := ComputeAggregate(nil)

	if agg.TotalBanks != 0 {
		t.Errorf("TotalBanks = %d, want 0", agg.TotalBanks)
	}
	if !agg.TotalCurrentBalance.IsZero() {
		t.Errorf("TotalCurrentBalance = %s, want 0", agg.TotalCurrentBalance)
	}
}

func TestComputeAggregate_NegativeBalances(t *testing.T) {
	linkA := uuid.New()

	accounts := []Account{
		{ID: "acc-1", LinkID: linkA, CurrentBalance: decimal.RequireFromString("100.00")},
		{ID: "acc-2", LinkID: linkA, CurrentBalance: decimal.RequireFromString("-40.10")},
	}

	agg := ComputeAggregate(accounts)

	if agg.TotalCurrentBalance.StringFixed(2) != "59.90" {
		t.Errorf("TotalCurrentBalance = %s, want 59.90", agg.TotalCurrentBalance.StringFixed(2))
	}
	if agg.TotalBanks != 1 {
		t.Errorf("TotalBanks = %d, want 1", agg.TotalBanks)
	}
}
