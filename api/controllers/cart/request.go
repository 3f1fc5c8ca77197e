package cart

import (
	cartdto "github.com/angelmondragon/marketplace-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/marketplace-cart/api/validators"
	cartsvc "github.com/angelmondragon/marketplace-cart/internal/cart"
)

const (
	maxIDLength    = 128
	maxTitleLength = 256
)

func toProduct(payload cartdto.AddItemRequest) cartsvc.Product {
	return cartsvc.Product{
		ID:       validators.SanitizeString(payload.ID, maxIDLength),
		Title:    validators.SanitizeString(payload.Title, maxTitleLength),
		ImageURL: validators.SanitizeString(payload.ImageURL, 0),
		Price:    payload.Price,
	}
}
