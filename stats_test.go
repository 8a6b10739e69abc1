package warehouse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestSummarize(t *testing.T) {
	items := []Item{
		{ID: "a", Name: "A", Category: "가스", Quantity: 10, SafetyStock: 2, Price: decimal.NewFromInt(1000)},
		{ID: "b", Name: "B", Category: "부품", Quantity: 3, SafetyStock: 3, Price: decimal.NewFromInt(2500)},
		{ID: "c", Name: "C", Category: "가스", Quantity: -1, SafetyStock: 0, Price: decimal.NewFromInt(10)},
	}
	got := Summarize(items, "KRW")
	if got.TotalItems != 3 || got.TotalQuantity != 12 || got.LowStockCount != 2 {
		t.Errorf("Summarize() = %+v", got)
	}
	if want := M(17490, "KRW"); !got.TotalValue.Equal(want) {
		t.Errorf("TotalValue = %v, want %v", got.TotalValue, want)
	}

	wantTotals := []CategoryTotal{{Category: "가스", Items: 2, Quantity: 9}, {Category: "부품", Items: 1, Quantity: 3}}
	if diff := cmp.Diff(wantTotals, CategoryTotals(items)); diff != "" {
		t.Errorf("CategoryTotals() mismatch (-want +got):\n%s", diff)
	}
}

func TestActivity(t *testing.T) {
	s := session(t)
	in, out := Activity(s.Logs())
	if in != 2 || out != 2 {
		t.Errorf("Activity() = %d, %d, want 2, 2", in, out)
	}
}

func TestMoneyString(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{M(15000, "KRW"), "₩15,000"},
		{M(decimal.RequireFromString("12.5"), "USD"), "$12.50"},
		{M(0, "KRW"), "₩0"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
