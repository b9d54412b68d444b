package world

import (
	"fmt"

	"github.com/l1jgo/paradox/internal/core/fault"
)

// Item is one stack held by exactly one inventory slot or floor cell.
// Moving an item between owners always goes through Clone.
type Item struct {
	Kind      string // definition id
	Quantity  int
	Recording RecordingID
	Bound     bool // Recording is meaningful (cloner items)
}

func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	cp := *it
	return &cp
}

// Stacks reports whether other can merge into it.
func (it *Item) Stacks(other *Item) bool {
	return it.Kind == other.Kind && !it.Bound && !other.Bound
}

func (it *Item) String() string {
	if it.Bound {
		return fmt.Sprintf("%s#%d", it.Kind, it.Recording)
	}
	return fmt.Sprintf("%s x%d", it.Kind, it.Quantity)
}

// Inventory is a fixed-size slot array; nil slots are empty.
type Inventory struct {
	Slots []*Item
}

func NewInventory(size int) Inventory {
	return Inventory{Slots: make([]*Item, size)}
}

// Clone deep-copies every slot.
func (inv Inventory) Clone() Inventory {
	out := Inventory{Slots: make([]*Item, len(inv.Slots))}
	for i, it := range inv.Slots {
		out.Slots[i] = it.Clone()
	}
	return out
}

// Get returns the item in slot, nil when empty.
func (inv Inventory) Get(slot int) (*Item, error) {
	if slot < 0 || slot >= len(inv.Slots) {
		return nil, fault.Failf("no inventory slot %d", slot)
	}
	return inv.Slots[slot], nil
}

// Count totals the quantity of unbound items of kind.
func (inv Inventory) Count(kind string) int {
	n := 0
	for _, it := range inv.Slots {
		if it != nil && it.Kind == kind && !it.Bound {
			n += it.Quantity
		}
	}
	return n
}

// Room returns how many units of item fit, given its stack limit.
func (inv Inventory) Room(item *Item, maxStack int) int {
	room := 0
	for _, it := range inv.Slots {
		switch {
		case it == nil:
			if item.Bound {
				room += 1
			} else {
				room += maxStack
			}
		case it.Stacks(item) && it.Quantity < maxStack:
			room += maxStack - it.Quantity
		}
	}
	return room
}

// Insert merges item into existing stacks, then empty slots. Nothing is
// changed unless the whole quantity fits.
func (inv *Inventory) Insert(item *Item, maxStack int) error {
	if maxStack < 1 {
		maxStack = 1
	}
	if item.Bound {
		maxStack = 1
	}
	if inv.Room(item, maxStack) < item.Quantity {
		return fault.Failf("inventory full")
	}
	left := item.Quantity
	for _, it := range inv.Slots {
		if left == 0 {
			break
		}
		if it != nil && it.Stacks(item) && it.Quantity < maxStack {
			n := min(maxStack-it.Quantity, left)
			it.Quantity += n
			left -= n
		}
	}
	for i, it := range inv.Slots {
		if left == 0 {
			break
		}
		if it == nil {
			n := min(maxStack, left)
			cp := item.Clone()
			cp.Quantity = n
			inv.Slots[i] = cp
			left -= n
		}
	}
	return nil
}

// Consume removes qty units of kind across stacks, emptying drained slots.
func (inv *Inventory) Consume(kind string, qty int) error {
	if inv.Count(kind) < qty {
		return fault.Failf("need %d %s", qty, kind)
	}
	for i, it := range inv.Slots {
		if qty == 0 {
			break
		}
		if it == nil || it.Kind != kind || it.Bound {
			continue
		}
		n := min(it.Quantity, qty)
		it.Quantity -= n
		qty -= n
		if it.Quantity == 0 {
			inv.Slots[i] = nil
		}
	}
	return nil
}

// ConsumeSlot removes one unit from slot.
func (inv *Inventory) ConsumeSlot(slot int) error {
	it, err := inv.Get(slot)
	if err != nil {
		return err
	}
	if it == nil {
		return fault.Failf("slot %d is empty", slot)
	}
	it.Quantity--
	if it.Quantity <= 0 {
		inv.Slots[slot] = nil
	}
	return nil
}

// Take empties slot and returns what it held.
func (inv *Inventory) Take(slot int) (*Item, error) {
	it, err := inv.Get(slot)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fault.Failf("slot %d is empty", slot)
	}
	inv.Slots[slot] = nil
	return it, nil
}
