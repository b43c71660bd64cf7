// Package cart holds a buyer session's shopping cart.
//
// A Store is safe for concurrent use. Mutations are applied in call order
// and every mutation synchronously notifies subscribers, in the same order,
// before the mutating call returns.
package cart

import (
	"slices"
	"sync"

	"github.com/Gsweya/hweibo-prototype/internal/models"
)

type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpUpdate Op = "update"
	OpClear  Op = "clear"
)

// Change describes one applied mutation and the cart as it stood afterwards.
type Change struct {
	Op         Op
	ItemID     string
	Items      []models.CartItem
	TotalItems int
	TotalPrice int64
}

type Listener func(Change)

type Store struct {
	mu    sync.Mutex
	items []models.CartItem

	// notifyMu is taken before mu is released so listeners observe changes
	// in mutation order. Listeners may read the store but must not mutate it.
	notifyMu  sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Subscribe registers fn for every subsequent mutation and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.notifyMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.notifyMu.Lock()
			delete(s.listeners, id)
			s.notifyMu.Unlock()
		})
	}
}

// AddToCart increments the quantity of an existing item with the same ID, or
// appends item with quantity 1.
func (s *Store) AddToCart(item models.CartItem) {
	s.mutate(OpAdd, item.ID, func() bool {
		if i := s.indexOf(item.ID); i >= 0 {
			s.items[i].Quantity++
			return true
		}
		item.Quantity = 1
		s.items = append(s.items, item)
		return true
	})
}

// RemoveFromCart deletes the item with id. Absent ids are ignored.
func (s *Store) RemoveFromCart(id string) {
	s.mutate(OpRemove, id, func() bool {
		return s.remove(id)
	})
}

// UpdateQuantity sets the quantity of item id. A quantity of zero or less
// removes the item.
func (s *Store) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(id)
		return
	}
	s.mutate(OpUpdate, id, func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.items[i].Quantity = quantity
		return true
	})
}

func (s *Store) ClearCart() {
	s.mutate(OpClear, "", func() bool {
		s.items = nil
		return true
	})
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

// Snapshot returns the items and both totals read under one lock.
func (s *Store) Snapshot() ([]models.CartItem, int, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items), totalItems(s.items), totalPrice(s.items)
}

func (s *Store) mutate(op Op, id string, apply func() bool) {
	s.mu.Lock()
	if !apply() {
		s.mu.Unlock()
		return
	}
	change := Change{
		Op:         op,
		ItemID:     id,
		Items:      slices.Clone(s.items),
		TotalItems: totalItems(s.items),
		TotalPrice: totalPrice(s.items),
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range s.listeners {
		fn(change)
	}
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(it models.CartItem) bool { return it.ID == id })
}

func (s *Store) remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

func totalItems(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func totalPrice(items []models.CartItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.LineTotal()
	}
	return sum
}
