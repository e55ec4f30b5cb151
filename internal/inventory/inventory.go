// Package inventory implements the kitchen's perishable stock as an
// ordered multiset of item entries. Every mutator returns a new value
// and leaves its receiver untouched, so a failed multi-step debit never
// exposes a partially applied state.
package inventory

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"shortorder/internal/catalog"
)

// ErrInsufficientStock is returned when a debit asks for more units
// than the store holds.
var ErrInsufficientStock = errors.New("insufficient stock")

// Entry is one physical unit of an item. Quantity is modeled by entry
// count, not by a field.
type Entry struct {
	ItemID    string    `json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Inventory is an immutable snapshot of the stock
type Inventory struct {
	entries []Entry
}

// New returns an empty inventory
func New() Inventory {
	return Inventory{}
}

// FromEntries builds an inventory holding the given entries in order
func FromEntries(entries []Entry) Inventory {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return Inventory{entries: copied}
}

// Len returns the total number of entries
func (inv Inventory) Len() int {
	return len(inv.entries)
}

// Entries returns a copy of the entries in store order
func (inv Inventory) Entries() []Entry {
	entries := make([]Entry, len(inv.entries))
	copy(entries, inv.entries)
	return entries
}

// Add appends one unit of the item stamped with the given time
func (inv Inventory) Add(itemID string, createdAt time.Time) Inventory {
	return inv.AddN(itemID, 1, createdAt)
}

// AddN appends qty units with identical timestamps in insertion order.
// A zero quantity is a no-op.
func (inv Inventory) AddN(itemID string, qty int, createdAt time.Time) Inventory {
	if qty <= 0 {
		return inv
	}
	entries := make([]Entry, len(inv.entries), len(inv.entries)+qty)
	copy(entries, inv.entries)
	for i := 0; i < qty; i++ {
		entries = append(entries, Entry{ItemID: itemID, CreatedAt: createdAt})
	}
	return Inventory{entries: entries}
}

// Count returns how many units of the item are in stock
func (inv Inventory) Count(itemID string) int {
	count := 0
	for _, e := range inv.entries {
		if e.ItemID == itemID {
			count++
		}
	}
	return count
}

// Counts returns the unit count per distinct item id
func (inv Inventory) Counts() map[string]int {
	counts := make(map[string]int)
	for _, e := range inv.entries {
		counts[e.ItemID]++
	}
	return counts
}

// Remove debits qty units of the item, oldest first. It fails with
// ErrInsufficientStock when fewer than qty units are in stock, leaving
// the receiver unobserved.
func (inv Inventory) Remove(itemID string, qty int) (Inventory, error) {
	if qty <= 0 {
		return inv, nil
	}
	matching := make([]int, 0, qty)
	for i, e := range inv.entries {
		if e.ItemID == itemID {
			matching = append(matching, i)
		}
	}
	if len(matching) < qty {
		return inv, fmt.Errorf("%w: %s have %d need %d", ErrInsufficientStock, itemID, len(matching), qty)
	}
	// Entries are normally appended in time order, but FIFO is defined
	// by timestamp, not by position.
	sort.SliceStable(matching, func(a, b int) bool {
		return inv.entries[matching[a]].CreatedAt.Before(inv.entries[matching[b]].CreatedAt)
	})
	drop := make(map[int]bool, qty)
	for _, idx := range matching[:qty] {
		drop[idx] = true
	}
	entries := make([]Entry, 0, len(inv.entries)-qty)
	for i, e := range inv.entries {
		if !drop[i] {
			entries = append(entries, e)
		}
	}
	return Inventory{entries: entries}, nil
}

// RemoveSet debits every requirement as one unit: if any single
// requirement cannot be met the whole set fails and the receiver's
// state is what the caller keeps.
func (inv Inventory) RemoveSet(requirements []catalog.Ingredient) (Inventory, error) {
	next := inv
	for _, req := range requirements {
		var err error
		next, err = next.Remove(req.ItemID, req.Quantity)
		if err != nil {
			return inv, err
		}
	}
	return next, nil
}

// RemoveExpired drops every entry whose shelf life has fully elapsed at
// now; the boundary instant itself counts as expired. Items without a
// shelf life never expire. The dropped entries are returned alongside
// the surviving inventory.
func (inv Inventory) RemoveExpired(cat *catalog.Catalog, now time.Time) (Inventory, []Entry) {
	var kept, expired []Entry
	for _, e := range inv.entries {
		life, ok := cat.ShelfLife(e.ItemID)
		if ok && !e.CreatedAt.Add(life).After(now) {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	if len(expired) == 0 {
		return inv, nil
	}
	return Inventory{entries: kept}, expired
}

// Freshness reports, per distinct item id, the freshness fraction of
// the stalest entry: 0 means expired, 1 means fresh. Items without a
// shelf life always report 1.
func (inv Inventory) Freshness(cat *catalog.Catalog, now time.Time) map[string]float64 {
	freshness := make(map[string]float64)
	for _, e := range inv.entries {
		f := 1.0
		if life, ok := cat.ShelfLife(e.ItemID); ok {
			remaining := e.CreatedAt.Add(life).Sub(now)
			f = float64(remaining) / float64(life)
			if f < 0 {
				f = 0
			}
		}
		if current, seen := freshness[e.ItemID]; !seen || f < current {
			freshness[e.ItemID] = f
		}
	}
	return freshness
}

// HasIngredientsFor reports whether every input of the recipe is met
// or exceeded by current stock.
func (inv Inventory) HasIngredientsFor(step catalog.Recipe) bool {
	counts := inv.Counts()
	for _, in := range step.Inputs {
		if counts[in.ItemID] < in.Quantity {
			return false
		}
	}
	return true
}

// ExecuteStep consumes all of the step's inputs and, only when every
// input was available, adds one unit of the output stamped now. A
// shortfall on any input leaves the stock unchanged.
func (inv Inventory) ExecuteStep(step catalog.Recipe, now time.Time) (Inventory, error) {
	next, err := inv.RemoveSet(step.Inputs)
	if err != nil {
		return inv, fmt.Errorf("execute %s: %w", step.Output, err)
	}
	return next.Add(step.Output, now), nil
}
