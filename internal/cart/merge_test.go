package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func product(id string) Product {
	return Product{ID: id, Title: "Item " + id, ImageURL: "https://img/" + id, Price: decimal.RequireFromString("9.99")}
}

func ids(c Cart) []string {
	out := make([]string, len(c))
	for i, item := range c {
		out[i] = item.ID
	}
	return out
}

func TestWithAddedAccumulatesAndKeepsIdsUnique(t *testing.T) {
	t.Parallel()

	var c Cart
	for _, id := range []string{"a", "b", "a", "c", "a", "b"} {
		c = withAdded(c, product(id))
	}

	if len(c) != 3 {
		t.Fatalf("expected 3 distinct items, got %v", ids(c))
	}
	want := map[string]int{"a": 3, "b": 2, "c": 1}
	for id, qty := range want {
		item, ok := c.Find(id)
		if !ok || item.Quantity != qty {
			t.Fatalf("expected %s quantity %d, got %+v (found=%v)", id, qty, item, ok)
		}
	}
	if got := ids(c); got[len(got)-1] != "b" {
		t.Fatalf("most recently added item should be last, got %v", got)
	}
}

func TestWithAddedDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	base := Cart{{Product: product("a"), Quantity: 1}, {Product: product("b"), Quantity: 1}}
	next := withAdded(base, product("a"))

	if base[0].ID != "a" || base[0].Quantity != 1 {
		t.Fatalf("input cart was modified: %+v", base)
	}
	if item, _ := next.Find("a"); item.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", item.Quantity)
	}
}

func TestIncrementDecrementSymmetry(t *testing.T) {
	t.Parallel()

	base := Cart{{Product: product("a"), Quantity: 3}, {Product: product("b"), Quantity: 1}}

	up, changed := withIncremented(base, "a")
	if !changed {
		t.Fatalf("expected change for known id")
	}
	down, changed := withDecremented(up, "a")
	if !changed {
		t.Fatalf("expected change for known id")
	}
	if item, _ := down.Find("a"); item.Quantity != 3 {
		t.Fatalf("expected quantity back at 3, got %d", item.Quantity)
	}
}

func TestDecrementAtOneRemoves(t *testing.T) {
	t.Parallel()

	base := Cart{{Product: product("a"), Quantity: 1}, {Product: product("b"), Quantity: 2}}
	next, changed := withDecremented(base, "a")
	if !changed {
		t.Fatalf("expected change")
	}
	if _, ok := next.Find("a"); ok {
		t.Fatalf("item at quantity 1 must be removed, got %+v", next)
	}
	if len(next) != 1 || next[0].ID != "b" {
		t.Fatalf("unexpected remaining items %v", ids(next))
	}
}

func TestUnknownIDIsNoop(t *testing.T) {
	t.Parallel()

	base := Cart{{Product: product("a"), Quantity: 2}}
	for name, fn := range map[string]func(Cart, string) (Cart, bool){
		"increment": withIncremented,
		"decrement": withDecremented,
	} {
		next, changed := fn(base, "missing")
		if changed {
			t.Fatalf("%s: unexpected change", name)
		}
		if len(next) != 1 || next[0] != base[0] {
			t.Fatalf("%s: cart changed: %+v", name, next)
		}
	}
}

func TestQuantityNeverBelowOne(t *testing.T) {
	t.Parallel()

	c := Cart{}
	ops := []struct {
		add bool
		inc bool
		id  string
	}{
		{add: true, id: "a"}, {id: "a"}, {id: "a"}, {add: true, id: "b"},
		{inc: true, id: "b"}, {id: "b"}, {id: "b"}, {id: "b"}, {add: true, id: "a"},
	}
	for _, op := range ops {
		switch {
		case op.add:
			c = withAdded(c, product(op.id))
		case op.inc:
			c, _ = withIncremented(c, op.id)
		default:
			c, _ = withDecremented(c, op.id)
		}
		for _, item := range c {
			if item.Quantity < 1 {
				t.Fatalf("found item with quantity %d: %+v", item.Quantity, c)
			}
		}
	}
	if len(c) != 1 || c[0].ID != "a" || c[0].Quantity != 1 {
		t.Fatalf("unexpected final cart %+v", c)
	}
}
