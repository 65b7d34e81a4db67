package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger_app/internal/core/ports/repositories"
)

// ClientDirectory is an in-memory stand-in for the external client profile store.
type ClientDirectory struct {
	mu      sync.RWMutex
	clients map[string]domain.Client
}

// NewClientDirectory returns a directory seeded with clients.
func NewClientDirectory(clients ...domain.Client) *ClientDirectory {
	d := &ClientDirectory{clients: make(map[string]domain.Client, len(clients))}
	for _, c := range clients {
		d.clients[c.ClientID] = c
	}
	return d
}

var _ portsrepo.ClientDirectory = (*ClientDirectory)(nil)

// Put adds or replaces a client.
func (d *ClientDirectory) Put(c domain.Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clients[c.ClientID] = c
}

// FindClientByID returns the client or apperrors.ErrNotFound.
func (d *ClientDirectory) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	_ = ctx
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	return &c, nil
}

// NewRepositoryProvider wires the in-memory repositories.
func NewRepositoryProvider(clients ...domain.Client) portsrepo.RepositoryProvider {
	credit := NewCreditRepository()
	return portsrepo.RepositoryProvider{
		CreditRepo: credit,
		ClientRepo: NewClientDirectory(clients...),
		Health:     credit,
	}
}
