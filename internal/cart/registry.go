package cart

import "sync"

// Registry keeps one cart per logged-in user and serializes all access to
// them. Carts live only in memory; a restart starts everyone empty.
type Registry struct {
	mu sync.Mutex
	m  map[string]*Cart
}

func NewRegistry() *Registry { return &Registry{m: make(map[string]*Cart)} }

// Do runs fn with username's cart under the registry lock, creating the
// cart on first use. fn must not retain the cart past its return.
func (r *Registry) Do(username string, fn func(*Cart)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.m[username]
	if !ok {
		c = New()
		r.m[username] = c
	}
	fn(c)
}

// Reset replaces username's cart with an empty one, as checkout does after
// the order is placed.
func (r *Registry) Reset(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[username] = New()
}
