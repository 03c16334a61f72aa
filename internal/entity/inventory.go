package entity

import "sort"

// Stack is an item ID with its quantity.
type Stack struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Inventory is a counted item store. Present keys always hold a positive
// quantity.
type Inventory struct {
	items map[string]int
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{items: make(map[string]int)}
}

// Add increases the quantity of an item. Non-positive quantities are ignored.
func (inv *Inventory) Add(itemID string, quantity int) {
	if quantity <= 0 {
		return
	}
	inv.items[itemID] += quantity
}

// Remove takes quantity of an item out. It returns false and leaves the
// inventory unchanged when there is not enough.
func (inv *Inventory) Remove(itemID string, quantity int) bool {
	if quantity <= 0 {
		return true
	}
	have := inv.items[itemID]
	if have < quantity {
		return false
	}
	inv.Set(itemID, have-quantity)
	return true
}

// Set stores an exact quantity; zero or negative removes the item.
func (inv *Inventory) Set(itemID string, quantity int) {
	if quantity <= 0 {
		delete(inv.items, itemID)
		return
	}
	inv.items[itemID] = quantity
}

// Quantity returns how many of an item are held.
func (inv *Inventory) Quantity(itemID string) int {
	return inv.items[itemID]
}

// Has reports whether at least quantity of an item is held.
func (inv *Inventory) Has(itemID string, quantity int) bool {
	return inv.items[itemID] >= quantity
}

// Len returns the number of distinct items held.
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// IsEmpty reports whether nothing is held.
func (inv *Inventory) IsEmpty() bool {
	return len(inv.items) == 0
}

// Items returns the contents sorted by item ID.
func (inv *Inventory) Items() []Stack {
	stacks := make([]Stack, 0, len(inv.items))
	for id, qty := range inv.items {
		stacks = append(stacks, Stack{ItemID: id, Quantity: qty})
	}
	sort.Slice(stacks, func(i, j int) bool { return stacks[i].ItemID < stacks[j].ItemID })
	return stacks
}

// Counts returns a copy of the contents as a plain map.
func (inv *Inventory) Counts() map[string]int {
	counts := make(map[string]int, len(inv.items))
	for id, qty := range inv.items {
		counts[id] = qty
	}
	return counts
}

// Clear removes every item.
func (inv *Inventory) Clear() {
	inv.items = make(map[string]int)
}
