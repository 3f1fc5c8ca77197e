package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	cartdto "github.com/angelmondragon/marketplace-cart/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/marketplace-cart/internal/cart"
)

func newCartView(c cartsvc.Cart) cartdto.CartView {
	items := make([]cartdto.CartItem, 0, len(c))
	total := decimal.Zero
	for _, item := range c {
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		items = append(items, cartdto.CartItem{
			ID:       item.ID,
			Title:    item.Title,
			ImageURL: item.ImageURL,
			Price:    json.Number(item.Price.String()),
			Quantity: item.Quantity,
			Subtotal: json.Number(subtotal.String()),
		})
	}
	return cartdto.CartView{
		Items:         items,
		Count:         len(items),
		TotalQuantity: c.TotalQuantity(),
		TotalPrice:    json.Number(total.String()),
	}
}

func newMutationView(c cartsvc.Cart, persisted bool) cartdto.CartView {
	view := newCartView(c)
	view.Persisted = &persisted
	return view
}
