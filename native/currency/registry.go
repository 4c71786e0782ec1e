// Package currency maintains the set of payment currencies a sale accepts.
package currency

import "launchpad/crypto"

// Registry is an append-only set of authorized payment currency addresses.
// Membership checks are O(1); List preserves insertion order so event and
// query output stays deterministic.
type Registry struct {
	index map[crypto.Address]struct{}
	order []crypto.Address
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[crypto.Address]struct{})}
}

// Add inserts addr into the set. Re-adding is a no-op; the return value
// reports whether the address was newly included.
func (r *Registry) Add(addr crypto.Address) bool {
	if _, ok := r.index[addr]; ok {
		return false
	}
	r.index[addr] = struct{}{}
	r.order = append(r.order, addr)
	return true
}

// Contains reports whether addr is an authorized payment currency.
func (r *Registry) Contains(addr crypto.Address) bool {
	_, ok := r.index[addr]
	return ok
}

// List returns the authorized currencies in insertion order.
func (r *Registry) List() []crypto.Address {
	out := make([]crypto.Address, len(r.order))
	copy(out, r.order)
	return out
}

// Load replaces the registry contents, used when restoring persisted state.
func (r *Registry) Load(addrs []crypto.Address) {
	r.index = make(map[crypto.Address]struct{}, len(addrs))
	r.order = r.order[:0]
	for _, addr := range addrs {
		r.Add(addr)
	}
}

// Len returns the number of authorized currencies.
func (r *Registry) Len() int { return len(r.order) }
