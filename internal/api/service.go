// Package api exposes the kitchen core over HTTP for the front-of-house
// layer. The Service owns the single canonical (kitchen, inventory)
// value pair behind a mutex; every operation computes a candidate state
// through the pure core and commits it only when the core reports
// success.
package api

import (
	"fmt"
	"sync"
	"time"

	"shortorder/internal/catalog"
	"shortorder/internal/inventory"
	"shortorder/internal/kitchen"
	"shortorder/internal/monitoring"
	"shortorder/internal/planner"
)

// Service guards the canonical kitchen state
type Service struct {
	mu      sync.Mutex
	cat     *catalog.Catalog
	state   kitchen.State
	inv     inventory.Inventory
	now     func() time.Time
	metrics *monitoring.Collector
}

// NewService creates a service over the catalog with an empty kitchen.
// A nil now falls back to wall-clock time; metrics may be nil.
func NewService(cat *catalog.Catalog, metrics *monitoring.Collector, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		cat:     cat,
		state:   kitchen.New(),
		inv:     inventory.New(),
		now:     now,
		metrics: metrics,
	}
}

// Catalog returns the catalog the service runs on
func (s *Service) Catalog() *catalog.Catalog {
	return s.cat
}

func (s *Service) observe() {
	if s.metrics != nil {
		s.metrics.ObserveState(s.state, s.inv)
	}
}

func (s *Service) fail(operation string, err error) error {
	if s.metrics != nil {
		s.metrics.RecordFailure(operation)
	}
	return err
}

// Tick advances every zone by delta and returns the item ids completed
// in this step.
func (s *Service) Tick(delta time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.state.Zones.Ready)
	next := s.state
	next.Zones = s.state.Zones.Tick(delta)
	s.state = next
	completed := append([]string{}, s.state.Zones.Ready[before:]...)
	if s.metrics != nil {
		s.metrics.RecordTick()
		s.metrics.RecordCompletions(completed)
	}
	s.observe()
	return completed
}

// SubmitOrder enqueues a pending order for the item
func (s *Service) SubmitOrder(itemID, customerID string) (kitchen.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, order, err := kitchen.SubmitOrder(s.cat, s.state, itemID, customerID, s.now())
	if err != nil {
		return kitchen.Order{}, s.fail("submit_order", err)
	}
	s.state = next
	if s.metrics != nil {
		s.metrics.RecordOrderSubmitted()
	}
	s.observe()
	return order, nil
}

// AssembleOrder assembles a pending order from inventory and the ready
// pool as one atomic debit.
func (s *Service) AssembleOrder(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, inv, err := kitchen.AssembleOrder(s.cat, s.state, s.inv, orderID)
	if err != nil {
		return s.fail("assemble_order", err)
	}
	s.state = next
	s.inv = inv
	if s.metrics != nil {
		s.metrics.RecordOrderAssembled()
	}
	s.observe()
	return nil
}

// CollectOrder removes an assembled order from order-up
func (s *Service) CollectOrder(orderID string) (kitchen.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, order, err := kitchen.CollectOrder(s.state, orderID)
	if err != nil {
		return kitchen.Order{}, s.fail("collect_order", err)
	}
	s.state = next
	s.observe()
	return order, nil
}

// PlaceIngredient starts producing outputID on its recipe's zone,
// debiting one unit of inputID from the inventory. An empty inputID
// defaults to the recipe's first input.
func (s *Service) PlaceIngredient(inputID, outputID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recipe, ok := s.cat.RecipeFor(outputID)
	if !ok {
		return s.fail("place_ingredient", fmt.Errorf("%w: %s", planner.ErrNotProducible, outputID))
	}
	if recipe.Method == catalog.MethodAssemble {
		return s.fail("place_ingredient", fmt.Errorf("%s is assembled, not produced on a zone", outputID))
	}
	if inputID == "" {
		inputID = recipe.Inputs[0].ItemID
	}
	next, inv, err := kitchen.PlaceIngredient(s.state, s.inv, inputID, outputID, recipe.Zone, recipe.Duration.D(), recipe.Interaction)
	if err != nil {
		return s.fail("place_ingredient", err)
	}
	s.state = next
	s.inv = inv
	if s.metrics != nil {
		s.metrics.RecordPlacement(string(recipe.Zone))
	}
	s.observe()
	return nil
}

// ActivateCuttingBoard toggles the active flag on a cutting-board slot
func (s *Service) ActivateCuttingBoard(idx int, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	next.Zones = s.state.Zones.ActivateCuttingBoard(idx, active)
	s.state = next
	s.observe()
}

// FlipStove flips a paused stove slot
func (s *Service) FlipStove(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	next.Zones = s.state.Zones.FlipStove(idx)
	s.state = next
	s.observe()
}

// RetrieveReady removes one unit of the item from the ready pool
func (s *Service) RetrieveReady(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	zones, err := s.state.Zones.RetrieveReady(itemID)
	if err != nil {
		return s.fail("retrieve_ready", err)
	}
	next := s.state
	next.Zones = zones
	s.state = next
	s.observe()
	return nil
}

// Restock purchases qty units of a raw item, adds them to the
// inventory stamped with the current time, and returns the total cost.
func (s *Service) Restock(itemID string, qty int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.cat.Item(itemID)
	if !ok {
		return 0, s.fail("restock", fmt.Errorf("unknown item: %s", itemID))
	}
	if item.Category != catalog.CategoryRaw {
		return 0, s.fail("restock", fmt.Errorf("%s is not a raw item", itemID))
	}
	if qty <= 0 {
		return 0, s.fail("restock", fmt.Errorf("quantity must be greater than 0"))
	}
	s.inv = s.inv.AddN(itemID, qty, s.now())
	s.observe()
	return item.Cost * qty, nil
}

// SweepExpired drops every expired inventory entry and returns how
// many were removed.
func (s *Service) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, expired := s.inv.RemoveExpired(s.cat, s.now())
	s.inv = inv
	if s.metrics != nil {
		s.metrics.RecordExpired(len(expired))
	}
	s.observe()
	return len(expired)
}

// Status is a read-only projection of the whole service state
type Status struct {
	Kitchen   kitchen.State  `json:"kitchen"`
	Inventory map[string]int `json:"inventory"`
	Idle      bool           `json:"idle"`
}

// Snapshot returns the current state projection
func (s *Service) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Kitchen:   s.state,
		Inventory: s.inv.Counts(),
		Idle:      kitchen.IsIdle(s.state),
	}
}

// InventoryCounts returns the unit count per item id
func (s *Service) InventoryCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Counts()
}

// Freshness returns the per-item minimum freshness fraction
func (s *Service) Freshness() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Freshness(s.cat, s.now())
}

// Plan describes the production chain for one item
type Plan struct {
	Target         string           `json:"target"`
	Steps          []catalog.Recipe `json:"steps"`
	RawIngredients map[string]int   `json:"raw_ingredients"`
	TotalTime      string           `json:"total_time"`
	RawCost        int              `json:"raw_cost"`
}

// PlanFor resolves the item's recipe chain into a production plan
func (s *Service) PlanFor(itemID string) (Plan, error) {
	node, err := planner.ResolveChain(s.cat, itemID)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Target:         itemID,
		Steps:          planner.FlattenChain(node),
		RawIngredients: planner.TotalRawIngredients(node),
		TotalTime:      planner.TotalRecipeTime(node).String(),
		RawCost:        planner.TotalRawCost(s.cat, node),
	}, nil
}
