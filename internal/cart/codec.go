package cart

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorruptPayload marks stored text that does not decode into a valid cart.
var ErrCorruptPayload = errors.New("corrupt cart payload")

// Encode serializes c as a JSON array of line items.
func Encode(c Cart) (string, error) {
	if c == nil {
		c = Cart{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(b), nil
}

// Decode parses a payload produced by Encode and checks the cart invariants:
// non-empty ids, unique ids and quantities of at least one.
func Decode(payload string) (Cart, error) {
	var items Cart
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: not an array", ErrCorruptPayload)
	}
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("%w: item %d has no id", ErrCorruptPayload, i)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %s has quantity %d", ErrCorruptPayload, item.ID, item.Quantity)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item %s", ErrCorruptPayload, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return items, nil
}
