package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	cartdto "github.com/angelmondragon/marketplace-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/marketplace-cart/api/responses"
	"github.com/angelmondragon/marketplace-cart/api/validators"
	cartsvc "github.com/angelmondragon/marketplace-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/marketplace-cart/pkg/errors"
	"github.com/angelmondragon/marketplace-cart/pkg/logger"
)

// CartFetch returns the current cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		responses.WriteSuccess(w, newCartView(svc.Current()))
	}
}

// CartAddItem adds one unit of the posted product.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartdto.AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product := toProduct(payload)

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, product.ID)
		}
		next, err := svc.AddToCart(ctx, product)
		writeMutation(ctx, logg, w, next, err)
	}
}

// CartIncrement raises the quantity of the item named in the path.
func CartIncrement(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return quantityHandler(svc, logg, cartsvc.Service.Increment)
}

// CartDecrement lowers the quantity of the item named in the path.
func CartDecrement(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return quantityHandler(svc, logg, cartsvc.Service.Decrement)
}

type quantityOp func(cartsvc.Service, context.Context, string) (cartsvc.Cart, error)

func quantityHandler(svc cartsvc.Service, logg *logger.Logger, op quantityOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, id)
		}
		next, err := op(svc, ctx, id)
		writeMutation(ctx, logg, w, next, err)
	}
}

// writeMutation answers 200 with the new cart when only the backend write
// failed, flagging it with persisted=false.
func writeMutation(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, next cartsvc.Cart, err error) {
	switch {
	case err == nil:
		responses.WriteSuccess(w, newMutationView(next, true))
	case cartsvc.IsPersistenceFailure(err):
		if logg != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "cart.response_not_persisted")
		}
		responses.WriteSuccess(w, newMutationView(next, false))
	default:
		responses.WriteError(ctx, logg, w, err)
	}
}
