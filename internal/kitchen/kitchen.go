// Package kitchen orchestrates the inventory and the production zones
// into order service: ingredients leave the inventory for a zone, and
// finished orders are assembled from raw stock and the ready pool as a
// single atomic debit.
package kitchen

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shortorder/internal/catalog"
	"shortorder/internal/inventory"
	"shortorder/internal/planner"
	"shortorder/internal/stations"
)

// ErrUnknownOrder is returned when an order id is not where the
// operation expects it (pending or awaiting pickup).
var ErrUnknownOrder = errors.New("unknown order")

// Order correlates a requested dish with the customer waiting for it
type Order struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	CustomerID string    `json:"customer_id,omitempty"`
	PlacedAt   time.Time `json:"placed_at"`
}

// State is the service state of one kitchen: its zones plus the queues
// of orders waiting to be assembled and waiting to be collected.
type State struct {
	Zones   stations.State `json:"zones"`
	Pending []Order        `json:"pending"`
	OrderUp []Order        `json:"order_up"`
}

// New returns an idle kitchen
func New() State {
	return State{Zones: stations.New()}
}

// SubmitOrder enqueues a pending order for a producible item and
// returns the created order alongside the new state.
func SubmitOrder(cat *catalog.Catalog, s State, itemID, customerID string, now time.Time) (State, Order, error) {
	if _, ok := cat.RecipeFor(itemID); !ok {
		return s, Order{}, fmt.Errorf("%w: %s", planner.ErrNotProducible, itemID)
	}
	order := Order{
		ID:         uuid.NewString(),
		ItemID:     itemID,
		CustomerID: customerID,
		PlacedAt:   now,
	}
	next := s
	next.Pending = append(append([]Order{}, s.Pending...), order)
	return next, order, nil
}

// PlaceIngredient debits one unit of the input item from the inventory
// and starts producing the output in the named zone. If either the
// debit or the placement fails, both the kitchen and the inventory are
// returned exactly as given.
func PlaceIngredient(s State, inv inventory.Inventory, inputID, outputID string, zone catalog.Zone, duration time.Duration, interaction catalog.Interaction) (State, inventory.Inventory, error) {
	debited, err := inv.Remove(inputID, 1)
	if err != nil {
		return s, inv, fmt.Errorf("place %s: %w", outputID, err)
	}
	zones, err := s.Zones.Place(zone, outputID, duration, interaction)
	if err != nil {
		return s, inv, fmt.Errorf("place %s: %w", outputID, err)
	}
	next := s
	next.Zones = zones
	return next, debited, nil
}

// AssembleOrder fulfills a pending order: the order's recipe inputs
// are split into raw items, debited from the inventory, and prepped
// items, drawn one unit at a time from the ready pool. The whole debit
// is all-or-nothing across both resources. On success the order moves
// from pending to order-up.
func AssembleOrder(cat *catalog.Catalog, s State, inv inventory.Inventory, orderID string) (State, inventory.Inventory, error) {
	idx := -1
	for i, order := range s.Pending {
		if order.ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, inv, fmt.Errorf("%w: %s", ErrUnknownOrder, orderID)
	}
	order := s.Pending[idx]

	recipe, ok := cat.RecipeFor(order.ItemID)
	if !ok {
		return s, inv, fmt.Errorf("%w: %s", planner.ErrNotProducible, order.ItemID)
	}

	var rawInputs []catalog.Ingredient
	var preppedInputs []catalog.Ingredient
	for _, in := range recipe.Inputs {
		if cat.IsRaw(in.ItemID) {
			rawInputs = append(rawInputs, in)
		} else {
			preppedInputs = append(preppedInputs, in)
		}
	}

	debited, err := inv.RemoveSet(rawInputs)
	if err != nil {
		return s, inv, fmt.Errorf("assemble %s: %w", order.ItemID, err)
	}
	zones := s.Zones
	for _, in := range preppedInputs {
		for n := 0; n < in.Quantity; n++ {
			zones, err = zones.RetrieveReady(in.ItemID)
			if err != nil {
				return s, inv, fmt.Errorf("assemble %s: %w", order.ItemID, err)
			}
		}
	}

	next := s
	next.Zones = zones
	next.Pending = append(append([]Order{}, s.Pending[:idx]...), s.Pending[idx+1:]...)
	next.OrderUp = append(append([]Order{}, s.OrderUp...), order)
	return next, debited, nil
}

// CollectOrder removes a completed order from the order-up queue and
// hands it back.
func CollectOrder(s State, orderID string) (State, Order, error) {
	for i, order := range s.OrderUp {
		if order.ID != orderID {
			continue
		}
		next := s
		next.OrderUp = append(append([]Order{}, s.OrderUp[:i]...), s.OrderUp[i+1:]...)
		return next, order, nil
	}
	return s, Order{}, fmt.Errorf("%w: %s", ErrUnknownOrder, orderID)
}

// IsIdle reports whether the kitchen has nothing pending, nothing in
// progress, nothing ready and nothing awaiting pickup.
func IsIdle(s State) bool {
	return len(s.Pending) == 0 && len(s.OrderUp) == 0 && s.Zones.IsIdle()
}
