package services

import (
	"sync"
)

// CartStore holds every session's cart in memory: session key -> product id
// -> quantity. Carts live until their last item is removed, the session is
// cleared, or a checkout succeeds; there is no time-based eviction.
//
// Locking: mu guards only the carts index. Each cart carries its own mutex,
// so traffic on one session never waits on another. mu is never acquired
// around a cart mutex in the lookup path; the drop path takes mu while
// holding the cart mutex, which is safe because no path waits on a cart
// mutex while holding mu.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]*sessionCart
}

type sessionCart struct {
	mu sync.Mutex
	// deleted marks a cart that was removed from the index while another
	// goroutine still held its pointer; such callers re-resolve the key.
	deleted bool
	items   map[int64]int
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*sessionCart)}
}

func (s *CartStore) get(key string) *sessionCart {
	s.mu.RLock()
	c := s.carts[key]
	s.mu.RUnlock()
	return c
}

func (s *CartStore) getOrCreate(key string) *sessionCart {
	if c := s.get(key); c != nil {
		return c
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.carts[key]
	if c == nil {
		c = &sessionCart{items: make(map[int64]int)}
		s.carts[key] = c
	}
	return c
}

// drop removes an emptied cart from the index. Called with c.mu held; the
// deleted flag is set first so concurrent holders of the same pointer retry
// against the index instead of mutating a dangling cart.
func (s *CartStore) drop(key string, c *sessionCart) {
	c.deleted = true
	s.mu.Lock()
	delete(s.carts, key)
	s.mu.Unlock()
}

// Add increments the quantity of productID in the session's cart, creating
// the cart if needed, and returns the new quantity. Concurrent adds to the
// same line compose: the increments never overwrite each other.
func (s *CartStore) Add(sessionKey string, productID int64, quantity int) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	for {
		c := s.getOrCreate(sessionKey)
		c.mu.Lock()
		if c.deleted {
			c.mu.Unlock()
			continue
		}
		c.items[productID] += quantity
		total := c.items[productID]
		c.mu.Unlock()
		return total, nil
	}
}

// Set replaces the stored quantity of an existing line item. Setting a line
// the cart does not hold is an error; removal is a separate operation.
func (s *CartStore) Set(sessionKey string, productID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for {
		c := s.get(sessionKey)
		if c == nil {
			return ErrCartItemNotFound
		}
		c.mu.Lock()
		if c.deleted {
			c.mu.Unlock()
			continue
		}
		if _, ok := c.items[productID]; !ok {
			c.mu.Unlock()
			return ErrCartItemNotFound
		}
		c.items[productID] = quantity
		c.mu.Unlock()
		return nil
	}
}

// Remove deletes a line item and reports whether anything was removed.
// Removing the last item deletes the session's cart entirely, so an empty
// cart is never observable as a dangling entry.
func (s *CartStore) Remove(sessionKey string, productID int64) bool {
	for {
		c := s.get(sessionKey)
		if c == nil {
			return false
		}
		c.mu.Lock()
		if c.deleted {
			c.mu.Unlock()
			continue
		}
		if _, ok := c.items[productID]; !ok {
			c.mu.Unlock()
			return false
		}
		delete(c.items, productID)
		if len(c.items) == 0 {
			s.drop(sessionKey, c)
		}
		c.mu.Unlock()
		return true
	}
}

// Quantities returns a copy of the session's product -> quantity mapping.
// A session with no cart yields an empty map.
func (s *CartStore) Quantities(sessionKey string) map[int64]int {
	c := s.get(sessionKey)
	if c == nil {
		return map[int64]int{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleted {
		return map[int64]int{}
	}
	out := make(map[int64]int, len(c.items))
	for id, q := range c.items {
		out[id] = q
	}
	return out
}

// Clear removes the session's cart entirely. Clearing an absent cart is a
// no-op.
func (s *CartStore) Clear(sessionKey string) {
	for {
		c := s.get(sessionKey)
		if c == nil {
			return
		}
		c.mu.Lock()
		if c.deleted {
			c.mu.Unlock()
			continue
		}
		s.drop(sessionKey, c)
		c.mu.Unlock()
		return
	}
}
