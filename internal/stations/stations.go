// Package stations implements the kitchen's production zones: the
// cutting board, the stove and the oven, each a fixed array of
// independently timed slots feeding one shared ready pool. State
// values are immutable; every operation returns a new value.
package stations

import (
	"errors"
	"fmt"
	"time"

	"shortorder/internal/catalog"
)

// Per-zone slot capacities
const (
	CuttingBoardCapacity = 1
	StoveCapacity        = 3
	OvenCapacity         = 2
)

var (
	// ErrZoneFull is returned when every slot of the target zone is occupied
	ErrZoneFull = errors.New("zone is full")
	// ErrUnknownZone is returned for a zone the kitchen does not have
	ErrUnknownZone = errors.New("unknown zone")
	// ErrNotReady is returned when the ready pool holds no unit of the item
	ErrNotReady = errors.New("item is not ready")
)

// SlotState tags the phase a slot is in
type SlotState string

const (
	// Slot phases
	SlotEmpty     SlotState = "empty"
	SlotWorking   SlotState = "working"
	SlotNeedsFlip SlotState = "needs_flip"
	// SlotDone is declared for completeness but never produced:
	// completion empties the slot and moves its output to the ready
	// pool in the same tick.
	SlotDone SlotState = "done"
)

// Slot is one unit of zone capacity. A working slot advances only
// while active; a needs_flip slot is a hard pause at exactly half the
// duration, waiting for an explicit flip.
type Slot struct {
	State       SlotState           `json:"state"`
	ItemID      string              `json:"item_id,omitempty"`
	Interaction catalog.Interaction `json:"interaction,omitempty"`
	Progress    time.Duration       `json:"progress,omitempty"`
	Duration    time.Duration       `json:"duration,omitempty"`
	Active      bool                `json:"active,omitempty"`
}

// State is the full zone state of one kitchen plus the shared ready
// pool of completed, uncollected outputs.
type State struct {
	CuttingBoard []Slot   `json:"cutting_board"`
	Stove        []Slot   `json:"stove"`
	Oven         []Slot   `json:"oven"`
	Ready        []string `json:"ready"`
}

// New returns a kitchen with every slot empty and nothing ready
func New() State {
	return State{
		CuttingBoard: emptySlots(CuttingBoardCapacity),
		Stove:        emptySlots(StoveCapacity),
		Oven:         emptySlots(OvenCapacity),
	}
}

func emptySlots(n int) []Slot {
	slots := make([]Slot, n)
	for i := range slots {
		slots[i].State = SlotEmpty
	}
	return slots
}

func (s State) clone() State {
	next := State{
		CuttingBoard: make([]Slot, len(s.CuttingBoard)),
		Stove:        make([]Slot, len(s.Stove)),
		Oven:         make([]Slot, len(s.Oven)),
	}
	copy(next.CuttingBoard, s.CuttingBoard)
	copy(next.Stove, s.Stove)
	copy(next.Oven, s.Oven)
	if len(s.Ready) > 0 {
		next.Ready = make([]string, len(s.Ready))
		copy(next.Ready, s.Ready)
	}
	return next
}

// Slots returns the slot array of the named zone
func (s State) Slots(zone catalog.Zone) ([]Slot, error) {
	switch zone {
	case catalog.ZoneCuttingBoard:
		return s.CuttingBoard, nil
	case catalog.ZoneStove:
		return s.Stove, nil
	case catalog.ZoneOven:
		return s.Oven, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownZone, zone)
	}
}

// Place starts producing the output item in the first empty slot of
// the zone, scanning by ascending index. Hold slots start inactive and
// wait for activation; flip and auto slots start running immediately.
func (s State) Place(zone catalog.Zone, outputID string, duration time.Duration, interaction catalog.Interaction) (State, error) {
	slots, err := s.Slots(zone)
	if err != nil {
		return s, err
	}
	idx := -1
	for i, slot := range slots {
		if slot.State == SlotEmpty {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrZoneFull, zone)
	}
	next := s.clone()
	target, _ := next.Slots(zone)
	target[idx] = Slot{
		State:       SlotWorking,
		ItemID:      outputID,
		Interaction: interaction,
		Duration:    duration,
		Active:      interaction != catalog.InteractionHold,
	}
	return next, nil
}

// ActivateCuttingBoard sets the active flag of a working cutting-board
// slot. An index out of range, an empty slot or a paused slot is a
// no-op returning the state unchanged.
func (s State) ActivateCuttingBoard(idx int, active bool) State {
	if idx < 0 || idx >= len(s.CuttingBoard) {
		return s
	}
	if s.CuttingBoard[idx].State != SlotWorking {
		return s
	}
	next := s.clone()
	next.CuttingBoard[idx].Active = active
	return next
}

// FlipStove resumes a paused stove slot: needs_flip becomes working
// again with its frozen progress intact. Flipping any other slot state
// is a no-op, so a double flip has no further effect.
func (s State) FlipStove(idx int) State {
	if idx < 0 || idx >= len(s.Stove) {
		return s
	}
	slot := s.Stove[idx]
	if slot.State != SlotNeedsFlip {
		return s
	}
	next := s.clone()
	next.Stove[idx] = Slot{
		State:       SlotWorking,
		ItemID:      slot.ItemID,
		Interaction: slot.Interaction,
		Progress:    slot.Progress,
		Duration:    slot.Duration,
		Active:      true,
	}
	return next
}

// Tick advances every slot across all zones by delta. Each slot's
// transition is computed from the pre-tick snapshot, so no completion
// in this tick is visible to another slot within the same tick. Every
// output completed in this tick is appended to the ready pool.
func (s State) Tick(delta time.Duration) State {
	next := s.clone()
	for _, slots := range [][]Slot{next.CuttingBoard, next.Stove, next.Oven} {
		for i, slot := range slots {
			advanced, completed := tickSlot(slot, delta)
			slots[i] = advanced
			if completed {
				next.Ready = append(next.Ready, slot.ItemID)
			}
		}
	}
	return next
}

func tickSlot(slot Slot, delta time.Duration) (Slot, bool) {
	switch slot.State {
	case SlotWorking:
		if !slot.Active {
			// Hold slots do not bank elapsed time while inactive.
			return slot, false
		}
		progress := slot.Progress + delta
		half := slot.Duration / 2
		if slot.Interaction == catalog.InteractionFlip && slot.Progress < half && progress >= half {
			// The midpoint pauses a flip slot exactly at half duration,
			// regardless of how far the tick would have carried it.
			return Slot{
				State:       SlotNeedsFlip,
				ItemID:      slot.ItemID,
				Interaction: slot.Interaction,
				Progress:    half,
				Duration:    slot.Duration,
			}, false
		}
		if progress >= slot.Duration {
			return Slot{State: SlotEmpty}, true
		}
		slot.Progress = progress
		return slot, false
	case SlotEmpty, SlotNeedsFlip, SlotDone:
		return slot, false
	default:
		return slot, false
	}
}

// RetrieveReady removes one unit of the item from the ready pool,
// taking the first occurrence in pool order. Repeated calls drain
// identical ready items one at a time.
func (s State) RetrieveReady(itemID string) (State, error) {
	for i, ready := range s.Ready {
		if ready != itemID {
			continue
		}
		next := s.clone()
		next.Ready = append(next.Ready[:i], next.Ready[i+1:]...)
		if len(next.Ready) == 0 {
			next.Ready = nil
		}
		return next, nil
	}
	return s, fmt.Errorf("%w: %s", ErrNotReady, itemID)
}

// ReadyCount returns how many units of the item sit in the ready pool
func (s State) ReadyCount(itemID string) int {
	count := 0
	for _, ready := range s.Ready {
		if ready == itemID {
			count++
		}
	}
	return count
}

// BusySlots counts the slots that are working or waiting for a flip
func (s State) BusySlots() int {
	count := 0
	for _, slots := range [][]Slot{s.CuttingBoard, s.Stove, s.Oven} {
		for _, slot := range slots {
			if slot.State == SlotWorking || slot.State == SlotNeedsFlip {
				count++
			}
		}
	}
	return count
}

// IsIdle reports whether no slot is occupied and nothing is ready
func (s State) IsIdle() bool {
	return s.BusySlots() == 0 && len(s.Ready) == 0
}
