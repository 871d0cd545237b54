package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"waw-esim/internal/model"
	"waw-esim/internal/storage"

	"github.com/rs/zerolog"
)

// PlanLookup resolves a plan ID against the last-fetched catalogue. Adding a
// plan the lookup does not know is a silent no-op rather than an error.
type PlanLookup interface {
	LookupPlan(planID string) (model.Plan, bool)
}

// Store holds the plan selections pending checkout. Items are coalesced per
// plan ID and every mutation is synchronously re-serialised to durable storage
// under a fixed key, so the cart survives process restarts.
type Store struct {
	mu      sync.RWMutex
	items   []model.CartItem
	lookup  PlanLookup
	storage storage.Store
	logger  zerolog.Logger
}

// NewStore creates a cart store persisting to kv.
func NewStore(kv storage.Store, lookup PlanLookup, logger zerolog.Logger) *Store {
	return &Store{
		lookup:  lookup,
		storage: kv,
		logger:  logger.With().Str("store", "cart").Logger(),
	}
}

// Load rehydrates the cart from storage. Best-effort: a missing or corrupt
// persisted blob leaves the cart empty and is never surfaced to the caller.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.storage.Get(ctx, storage.CartKey)
	if err != nil {
		if err != storage.ErrKeyNotFound {
			s.logger.Warn().Err(err).Msg("failed to read persisted cart, starting empty")
		}
		return
	}

	var items []model.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn().Err(err).Msg("corrupt persisted cart, starting empty")
		return
	}

	s.items = items
	s.logger.Debug().Int("items", len(items)).Msg("cart rehydrated")
}

// Add puts one unit of the plan into the cart. If the plan is already present
// its quantity is incremented; an unknown plan ID is a logged no-op.
func (s *Store) Add(ctx context.Context, planID string) error {
	plan, ok := s.lookup.LookupPlan(planID)
	if !ok {
		s.logger.Warn().Str("plan_id", planID).Msg("plan not in catalogue, ignoring add")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.items {
		if s.items[i].PlanID == planID {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, model.CartItem{PlanID: planID, Plan: plan, Quantity: 1})
	}

	return s.persist(ctx)
}

// Remove takes one unit of the plan out of the cart, dropping the entry when
// its quantity reaches zero. Removing an absent plan is a no-op.
func (s *Store) Remove(ctx context.Context, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].PlanID != planID {
			continue
		}
		if s.items[i].Quantity > 1 {
			s.items[i].Quantity--
		} else {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		return s.persist(ctx)
	}
	return nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persist(ctx)
}

// Items returns a copy of the current cart entries.
func (s *Store) Items() []model.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Total is the sum of plan price times quantity over all entries.
func (s *Store) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, item := range s.items {
		total += item.Plan.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities over all entries.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// persist re-serialises the full cart. Callers must hold the lock.
func (s *Store) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("failed to serialise cart: %w", err)
	}
	if err := s.storage.Set(ctx, storage.CartKey, raw); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}
