package cart

import "sync/atomic"

// Badge mirrors a store's total item count for the navigation counter.
type Badge struct {
	count       atomic.Int64
	unsubscribe func()
}

func NewBadge(s *Store) *Badge {
	b := &Badge{}
	b.count.Store(int64(s.TotalItems()))
	b.unsubscribe = s.Subscribe(func(c Change) {
		b.count.Store(int64(c.TotalItems))
	})
	return b
}

func (b *Badge) Count() int {
	return int(b.count.Load())
}

// Detach stops the badge following its store.
func (b *Badge) Detach() {
	b.unsubscribe()
}
