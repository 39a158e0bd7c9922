package jwtx

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds RSA verification keys by kid. It is safe for concurrent use.
type KeySet struct {
	mu  sync.RWMutex
	pub map[string]*rsa.PublicKey
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{pub: make(map[string]*rsa.PublicKey)}
}

// Get returns the public key for the given kid.
func (k *KeySet) Get(kid string) (*rsa.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if pk, ok := k.pub[kid]; ok {
		return pk, nil
	}
	return nil, ErrNoKey
}

// Len returns the number of loaded keys.
func (k *KeySet) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pub)
}

// ResetFromJWKS replaces all keys with the RSA signing keys in jwks. Keys of
// other types are skipped.
func (k *KeySet) ResetFromJWKS(jwks JWKS) error {
	next := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, j := range jwks.Keys {
		if j.Kty != "RSA" || (j.Use != "" && j.Use != "sig") {
			continue
		}
		key, err := j.RSAPublicKey()
		if err != nil {
			return err
		}
		next[j.Kid] = key
	}
	if len(next) == 0 {
		return errors.New("jwtx: key set has no RSA signing keys")
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.pub = next
	return nil
}

// DefaultKeyRefreshInterval bounds how often a RemoteKeySet refetches on an
// unknown kid.
const DefaultKeyRefreshInterval = time.Minute

const maxJWKSBytes = 1 << 20

// RemoteKeySet is a KeySet loaded from a JWKS endpoint. A token with an
// unknown kid triggers a refetch so rotated keys are picked up, but at most
// once per refresh interval.
type RemoteKeySet struct {
	url     string
	client  *http.Client
	keys    *KeySet
	refresh *rate.Limiter

	fetchMu sync.Mutex
}

// NewRemoteKeySet returns a key set for url. Nothing is fetched until the
// first lookup.
func NewRemoteKeySet(url string, client *http.Client, minRefresh time.Duration) *RemoteKeySet {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if minRefresh <= 0 {
		minRefresh = DefaultKeyRefreshInterval
	}
	return &RemoteKeySet{
		url:     url,
		client:  client,
		keys:    NewKeySet(),
		refresh: rate.NewLimiter(rate.Every(minRefresh), 1),
	}
}

// Key returns the key for kid, refetching the set if kid is unknown.
func (r *RemoteKeySet) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key, err := r.keys.Get(kid); err == nil {
		return key, nil
	}

	r.fetchMu.Lock()
	defer r.fetchMu.Unlock()

	// Another caller may have fetched while we waited.
	if key, err := r.keys.Get(kid); err == nil {
		return key, nil
	}
	if !r.refresh.Allow() {
		return nil, ErrNoKey
	}
	if err := r.fetch(ctx); err != nil {
		return nil, err
	}
	return r.keys.Get(kid)
}

func (r *RemoteKeySet) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return fmt.Errorf("jwtx: build key request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("jwtx: fetch keys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwtx: fetch keys: unexpected status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJWKSBytes)).Decode(&jwks); err != nil {
		return fmt.Errorf("jwtx: decode keys: %w", err)
	}
	return r.keys.ResetFromJWKS(jwks)
}
