package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product describes something that can be put in the cart. ID is its identity.
type Product struct {
	ID       string
	Title    string
	ImageURL string
	Price    decimal.Decimal
}

// LineItem is a product together with how many of it the cart holds.
type LineItem struct {
	Product
	Quantity int
}

// Cart is an ordered list of line items with unique product ids.
type Cart []LineItem

type lineItemJSON struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	ImageURL string      `json:"image_url"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
}

// MarshalJSON writes the price as a plain JSON number so payloads stay
// readable by any consumer of the stored format.
func (li LineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineItemJSON{
		ID:       li.ID,
		Title:    li.Title,
		ImageURL: li.ImageURL,
		Price:    json.Number(li.Price.String()),
		Quantity: li.Quantity,
	})
}

func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw lineItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	price := decimal.Zero
	if raw.Price != "" {
		parsed, err := decimal.NewFromString(raw.Price.String())
		if err != nil {
			return fmt.Errorf("price %q: %w", raw.Price, err)
		}
		price = parsed
	}
	*li = LineItem{
		Product: Product{
			ID:       raw.ID,
			Title:    raw.Title,
			ImageURL: raw.ImageURL,
			Price:    price,
		},
		Quantity: raw.Quantity,
	}
	return nil
}

// Index returns the position of the item with id, or -1.
func (c Cart) Index(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the item with id.
func (c Cart) Find(id string) (LineItem, bool) {
	if i := c.Index(id); i >= 0 {
		return c[i], true
	}
	return LineItem{}, false
}

// Clone returns an independent copy; a nil cart clones to an empty one.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Equal reports whether both carts hold the same items in the same order.
func (c Cart) Equal(other Cart) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		x, y := c[i], other[i]
		if x.ID != y.ID || x.Title != y.Title || x.ImageURL != y.ImageURL || x.Quantity != y.Quantity || !x.Price.Equal(y.Price) {
			return false
		}
	}
	return true
}

// TotalQuantity sums the quantities of all items.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}
