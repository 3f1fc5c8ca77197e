// Package cart holds the shopping cart: a list of line items kept in memory
// and rewritten in full to a key-value backend on every change.
package cart

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angelmondragon/marketplace-cart/internal/kvstore"
	pkgerrors "github.com/angelmondragon/marketplace-cart/pkg/errors"
	"github.com/angelmondragon/marketplace-cart/pkg/logger"
	"github.com/angelmondragon/marketplace-cart/pkg/metrics"
)

// DefaultStorageKey is the backend key the cart is stored under.
const DefaultStorageKey = "@GoMarketplace:products"

const (
	opAdd       = "add"
	opIncrement = "increment"
	opDecrement = "decrement"
)

// State is the restore lifecycle of a Store.
type State int32

const (
	StateUninitialized State = iota
	StateRestoring
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRestoring:
		return "restoring"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Listener receives a copy of the cart after every change.
type Listener func(Cart)

type subscription struct {
	id uint64
	fn Listener
}

// Service is the cart surface consumed by the HTTP layer. *Store implements it.
type Service interface {
	Current() Cart
	AddToCart(ctx context.Context, p Product) (Cart, error)
	Increment(ctx context.Context, id string) (Cart, error)
	Decrement(ctx context.Context, id string) (Cart, error)
	Subscribe(fn Listener) func()
	State() State
	Ready() <-chan struct{}
}

var _ Service = (*Store)(nil)

// StoreParams wires a Store. Backend is required.
type StoreParams struct {
	Backend      kvstore.Backend
	Key          string
	Logger       *logger.Logger
	Metrics      *metrics.CartMetrics
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Store is the single cart of the process. Construct it with NewStore and
// share the pointer; the zero value is not usable.
//
// Restore and mutations run one at a time under mutateMu, so every mutation
// starts from the result of the previous one. Listeners run while that lock
// is held and must not call back into AddToCart, Increment or Decrement.
type Store struct {
	backend      kvstore.Backend
	key          string
	logg         *logger.Logger
	metrics      *metrics.CartMetrics
	readTimeout  time.Duration
	writeTimeout time.Duration

	mutateMu sync.Mutex

	mu           sync.RWMutex
	items        Cart
	listeners    []subscription
	nextListener uint64

	state          atomic.Int32
	restoreStarted atomic.Bool
	ready          chan struct{}
}

// NewStore builds an empty, uninitialized store.
func NewStore(p StoreParams) (*Store, error) {
	if p.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUsage, "cart store requires a storage backend")
	}
	key := strings.TrimSpace(p.Key)
	if key == "" {
		key = DefaultStorageKey
	}
	return &Store{
		backend:      p.Backend,
		key:          key,
		logg:         p.Logger,
		metrics:      p.Metrics,
		readTimeout:  p.ReadTimeout,
		writeTimeout: p.WriteTimeout,
		items:        Cart{},
		ready:        make(chan struct{}),
	}, nil
}

// IsPersistenceFailure reports whether err comes from a backend write the
// store could not complete. The returned cart is still the new in-memory cart.
func IsPersistenceFailure(err error) bool {
	return pkgerrors.HasCode(err, pkgerrors.CodePersistence)
}

// Initialize restores the cart from the backend. Only the first call reads;
// later calls wait until that restore finishes or ctx is done. Read failures
// and undecodable payloads are logged and leave the cart as it is.
//
// A mutation issued before Initialize runs the restore itself first, so the
// persisted cart is never overwritten by a write that did not start from it.
func (s *Store) Initialize(ctx context.Context) error {
	s.mustBeUsable()
	return s.ensureRestored(ctx)
}

// ensureRestored runs the restore when nobody has started it, then waits for
// it. The read itself is detached from ctx so an abandoned caller cannot cut
// the restore short for everybody else.
func (s *Store) ensureRestored(ctx context.Context) error {
	if s.restoreStarted.CompareAndSwap(false, true) {
		s.restore(ctx)
	}
	select {
	case <-s.ready:
		return nil
	default:
	}
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready is closed once the restore has finished, successfully or not.
func (s *Store) Ready() <-chan struct{} {
	s.mustBeUsable()
	return s.ready
}

func (s *Store) State() State {
	s.mustBeUsable()
	return State(s.state.Load())
}

// Key returns the backend key the cart is written to.
func (s *Store) Key() string {
	s.mustBeUsable()
	return s.key
}

// Current returns a copy of the cart as of the last completed mutation.
func (s *Store) Current() Cart {
	s.mustBeUsable()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Clone()
}

// AddToCart puts one more of p in the cart, adding it with quantity 1 when absent.
func (s *Store) AddToCart(ctx context.Context, p Product) (Cart, error) {
	s.mustBeUsable()
	if strings.TrimSpace(p.ID) == "" {
		return s.Current(), pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if p.Price.IsNegative() {
		return s.Current(), pkgerrors.New(pkgerrors.CodeValidation, "product price must not be negative")
	}
	return s.apply(ctx, opAdd, p.ID, func(c Cart) Cart {
		return withAdded(c, p)
	})
}

// Increment raises the quantity of id by one. An unknown id leaves the cart
// unchanged but it is still written back.
func (s *Store) Increment(ctx context.Context, id string) (Cart, error) {
	s.mustBeUsable()
	return s.apply(ctx, opIncrement, id, func(c Cart) Cart {
		next, _ := withIncremented(c, id)
		return next
	})
}

// Decrement lowers the quantity of id by one and drops the item when it
// reaches zero. An unknown id leaves the cart unchanged but it is still written back.
func (s *Store) Decrement(ctx context.Context, id string) (Cart, error) {
	s.mustBeUsable()
	return s.apply(ctx, opDecrement, id, func(c Cart) Cart {
		next, _ := withDecremented(c, id)
		return next
	})
}

// Subscribe registers fn for every future change. The returned func removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mustBeUsable()
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool {
				return sub.id == id
			})
			s.mu.Unlock()
		})
	}
}

func (s *Store) apply(ctx context.Context, op, productID string, fn func(Cart) Cart) (Cart, error) {
	if err := s.ensureRestored(ctx); err != nil {
		return s.Current(), err
	}

	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	// a caller that gave up while queued gets nothing applied
	if err := ctx.Err(); err != nil {
		return s.Current(), err
	}

	next := fn(s.Current())
	payload, err := Encode(next)
	if err != nil {
		return s.Current(), pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}

	writeErr := s.write(ctx, payload)

	// The write has completed (or failed) before anyone can see next.
	s.swap(next)
	s.metrics.IncMutation(op)

	logCtx := s.logContext(ctx, op, productID)
	if writeErr != nil {
		s.metrics.IncPersistenceFailure(op)
		if s.logg != nil {
			s.logg.Error(logCtx, "cart.persist_failed", writeErr)
		}
		return next.Clone(), pkgerrors.Wrap(pkgerrors.CodePersistence, writeErr, "persist cart")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(logCtx, "line_items", len(next)), "cart.updated")
	}
	return next.Clone(), nil
}

// write runs detached from the caller's cancellation once the mutation has
// been committed to, bounded only by the write timeout.
func (s *Store) write(ctx context.Context, payload string) error {
	ctx = context.WithoutCancel(ctx)
	if s.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.writeTimeout)
		defer cancel()
	}
	return s.backend.Write(ctx, s.key, payload)
}

func (s *Store) restore(ctx context.Context) {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	s.state.Store(int32(StateRestoring))
	defer func() {
		s.state.Store(int32(StateReady))
		close(s.ready)
	}()

	logCtx := ctx
	if s.logg != nil {
		logCtx = s.logg.WithStorageKey(ctx, s.key)
	}

	readCtx := context.WithoutCancel(ctx)
	if s.readTimeout > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(readCtx, s.readTimeout)
		defer cancel()
	}

	payload, found, err := s.backend.Read(readCtx, s.key)
	switch {
	case err != nil:
		s.metrics.ObserveRestore(metrics.RestoreFailed)
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "cart.restore_failed")
		}
		return
	case !found:
		s.metrics.ObserveRestore(metrics.RestoreEmpty)
		if s.logg != nil {
			s.logg.Info(logCtx, "cart.restore_empty")
		}
		return
	}

	restored, err := Decode(payload)
	if err != nil {
		s.metrics.ObserveRestore(metrics.RestoreCorrupt)
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "cart.restore_corrupt")
		}
		return
	}

	s.swap(restored)
	s.metrics.ObserveRestore(metrics.RestoreRestored)
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(logCtx, "line_items", len(restored)), "cart.restored")
	}
}

// swap installs next as the current cart and notifies listeners in
// registration order.
func (s *Store) swap(next Cart) {
	s.mu.Lock()
	s.items = next.Clone()
	subs := slices.Clone(s.listeners)
	s.mu.Unlock()

	s.metrics.SetLineItems(len(next))
	for _, sub := range subs {
		sub.fn(next.Clone())
	}
}

func (s *Store) logContext(ctx context.Context, op, productID string) context.Context {
	if s.logg == nil {
		return ctx
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"op": op, "storage_key": s.key})
	if productID != "" {
		ctx = s.logg.WithProductID(ctx, productID)
	}
	return ctx
}

var errUnusableStore = pkgerrors.New(pkgerrors.CodeUsage, "cart store used without NewStore")

// mustBeUsable aborts the caller when the store was not built by NewStore.
func (s *Store) mustBeUsable() {
	if s == nil || s.backend == nil {
		panic(errUnusableStore)
	}
}

// IsUsageError reports whether v, typically a recovered panic value, is a usage error.
func IsUsageError(v any) bool {
	err, ok := v.(error)
	return ok && pkgerrors.HasCode(err, pkgerrors.CodeUsage)
}
