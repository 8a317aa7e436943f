package cart

import (
	"testing"

	"github.com/nivaran/storefront/internal/core/domain/catalog"
)

func TestItemCount(t *testing.T) {
	c := &Cart{Lines: []Line{{Quantity: 2}, {Quantity: 3}}}
	if c.ItemCount() != 5 {
		t.Fatalf("expected 5, got %d", c.ItemCount())
	}

	var nilCart *Cart
	if nilCart.ItemCount() != 0 {
		t.Fatalf("nil cart must count zero items")
	}
	if (&Cart{}).ItemCount() != 0 {
		t.Fatalf("empty cart must count zero items")
	}
}

func TestSubtotal_NilSafe(t *testing.T) {
	c := &Cart{Cost: CostSummary{Subtotal: catalog.Money{Amount: "100.00", CurrencyCode: "INR"}}}
	if c.Subtotal().Amount != "100.00" {
		t.Fatalf("unexpected subtotal: %+v", c.Subtotal())
	}

	var nilCart *Cart
	if !nilCart.Subtotal().IsZero() {
		t.Fatalf("nil cart subtotal must be zero")
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateUninitialized: "uninitialized",
		StateRecovering:    "recovering",
		StateReady:         "ready",
	}
	for state, want := range cases {
		if state.String() != want {
			t.Fatalf("state %d: expected %q, got %q", state, want, state.String())
		}
	}
}
