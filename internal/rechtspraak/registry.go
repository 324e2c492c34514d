package rechtspraak

import (
	"strings"
	"sync"
)

// Registry memoizes one transport client per normalized base URL, so
// callers sharing a provider address also share its cache and connection
// pool. Instances live for the registry's lifetime; a long-lived server
// process never tears them down.
//
// The registry is explicit and constructor-injected rather than a package
// global, so tests build a fresh one per run.
type Registry struct {
	mu      sync.Mutex
	cfg     ClientConfig
	clients map[string]*Client
}

// NewRegistry creates a registry whose clients share the given config.
func NewRegistry(cfg ClientConfig) *Registry {
	return &Registry{
		cfg:     cfg,
		clients: make(map[string]*Client),
	}
}

// ClientFor returns the memoized client for baseURL, creating it on
// first use. Base URLs differing only in trailing slash or scheme/host
// case map to the same client.
func (r *Registry) ClientFor(baseURL string) (*Client, error) {
	key, err := normalizeBase(baseURL)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[key]; ok {
		return client, nil
	}

	client, err := NewClient(key, r.cfg)
	if err != nil {
		return nil, err
	}
	r.clients[key] = client
	return client, nil
}

// Reset drops all memoized clients and their caches. Only isolated test
// runs should need this.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = make(map[string]*Client)
}

// Len returns the number of distinct memoized clients.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// normalizeBase canonicalizes a base URL for use as a registry key.
// Validation is shared with NewClient, so a malformed base fails here and
// is never attempted.
func normalizeBase(baseURL string) (string, error) {
	parsed, err := parseBase(baseURL)
	if err != nil {
		return "", err
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	return parsed.String(), nil
}
