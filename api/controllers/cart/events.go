package cart

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/angelmondragon/marketplace-cart/api/responses"
	"github.com/angelmondragon/marketplace-cart/api/validators"
	cartsvc "github.com/angelmondragon/marketplace-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/marketplace-cart/pkg/errors"
	"github.com/angelmondragon/marketplace-cart/pkg/logger"
)

const (
	eventCart               = "cart"
	defaultHeartbeatSeconds = 15
	pendingSnapshots        = 8
)

// CartEvents streams the cart as Server-Sent Events: one snapshot on connect,
// then one per change. A slow client skips intermediate snapshots but always
// receives the latest one. A snapshot identical to the previous event is not
// sent again, which also covers a change racing the initial snapshot.
func CartEvents(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}
		heartbeat, err := validators.ParseQueryInt(r, "heartbeat", defaultHeartbeatSeconds, 1, 300)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updates := make(chan cartsvc.Cart, pendingSnapshots)
		unsubscribe := svc.Subscribe(func(c cartsvc.Cart) {
			offerLatest(updates, c)
		})
		defer unsubscribe()

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		ctx := r.Context()
		if logg != nil {
			logg.Debug(ctx, "cart.events_connected")
		}

		var (
			seq  uint64
			last cartsvc.Cart
		)
		send := func(c cartsvc.Cart) bool {
			if seq > 0 && c.Equal(last) {
				return true
			}
			last = c
			seq++
			if err := writeEvent(w, seq, eventCart, newCartView(c)); err != nil {
				if logg != nil {
					logg.Debug(logg.WithField(ctx, "error", err.Error()), "cart.events_write_failed")
				}
				return false
			}
			flusher.Flush()
			return true
		}

		if !send(svc.Current()) {
			return
		}

		ticker := time.NewTicker(time.Duration(heartbeat) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				if logg != nil {
					logg.Debug(ctx, "cart.events_disconnected")
				}
				return
			case c := <-updates:
				if !send(c) {
					return
				}
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

// offerLatest queues c without blocking, discarding the oldest pending
// snapshot when the queue is full. Listeners run under the store's mutation
// lock so they must never wait on a client.
func offerLatest(queue chan cartsvc.Cart, c cartsvc.Cart) {
	for {
		select {
		case queue <- c:
			return
		default:
		}
		select {
		case <-queue:
		default:
		}
	}
}

func writeEvent(w http.ResponseWriter, id uint64, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, name, data)
	return err
}
