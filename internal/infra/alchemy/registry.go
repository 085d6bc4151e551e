package alchemy

import (
	"fmt"

	"github.com/vietddude/rnsdash/internal/core/domain"
)

// Registry holds one Client per configured network.
type Registry struct {
	clients map[domain.Network]*Client
}

// NewRegistry creates a registry over clients. Nil clients are skipped.
func NewRegistry(clients ...*Client) *Registry {
	r := &Registry{clients: make(map[domain.Network]*Client)}
	for _, c := range clients {
		if c != nil {
			r.clients[c.Network()] = c
		}
	}
	return r
}

// For returns the client of network n or ErrNotConfigured.
func (r *Registry) For(n domain.Network) (*Client, error) {
	c, ok := r.clients[n]
	if !ok {
		return nil, fmt.Errorf("%s: %w", n, domain.ErrNotConfigured)
	}
	return c, nil
}

// Clients returns every configured client.
func (r *Registry) Clients() []*Client {
	out := make([]*Client, 0, len(r.clients))
	for _, n := range domain.Networks {
		if c, ok := r.clients[n]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Close releases every client.
func (r *Registry) Close() {
	for _, c := range r.clients {
		c.Close()
	}
}
