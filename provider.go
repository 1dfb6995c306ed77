package apiclient

import "sync"

// Factory builds the client held by a Provider.
type Factory func() (Client, error)

// Provider lazily builds one shared client and hands out the same instance
// until Reset is called. It is safe for concurrent use.
type Provider struct {
	factory Factory

	mu     sync.Mutex
	client Client
}

// NewProvider returns a Provider using factory. A nil factory reads the
// environment with FromEnv.
func NewProvider(factory Factory) *Provider {
	if factory == nil {
		factory = func() (Client, error) { return FromEnv() }
	}
	return &Provider{factory: factory}
}

// Client returns the shared client, building it on first use. A factory error
// is returned and the next call tries again.
func (p *Provider) Client() (Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	client, err := p.factory()
	if err != nil {
		return nil, err
	}
	p.client = client
	return client, nil
}

// Reset drops the shared client so the next Client call builds a new one.
// Clients already handed out keep working.
func (p *Provider) Reset() {
	p.mu.Lock()
	p.client = nil
	p.mu.Unlock()
}
