package cartdto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// AddItemRequest is the body of POST /api/v1/cart/items.
type AddItemRequest struct {
	ID       string          `json:"id" validate:"required,max=128"`
	Title    string          `json:"title" validate:"max=256"`
	ImageURL string          `json:"image_url" validate:"omitempty,max=2048"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
}

// CartItem is one line of the cart as returned to clients.
type CartItem struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	ImageURL string      `json:"image_url"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
	Subtotal json.Number `json:"subtotal"`
}

// CartView is the cart snapshot returned by every cart endpoint and event.
type CartView struct {
	Items         []CartItem  `json:"items"`
	Count         int         `json:"count"`
	TotalQuantity int         `json:"total_quantity"`
	TotalPrice    json.Number `json:"total_price"`
	Persisted     *bool       `json:"persisted,omitempty"`
}
