package oauth2client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTokenLifetime is how long a fetched token is reused, unless the
// server reports an earlier expiry.
const DefaultTokenLifetime = 55 * time.Minute

// TokenFetcher obtains a fresh token from the authorization server.
type TokenFetcher func(ctx context.Context) (Token, error)

// TokenCache holds at most one token per credential pair. Concurrent misses
// for the same credentials share a single call to the fetcher.
type TokenCache struct {
	mu         sync.Mutex
	slots      map[string]Token
	fetchGroup singleflight.Group

	lifetime time.Duration
	timeout  time.Duration
	now      func() time.Time
}

// NewTokenCache creates a cache that keeps tokens for at most lifetime and
// bounds each fetch by timeout. A zero lifetime selects DefaultTokenLifetime;
// a zero timeout leaves fetches unbounded.
func NewTokenCache(lifetime, timeout time.Duration) *TokenCache {
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &TokenCache{
		slots:    make(map[string]Token),
		lifetime: lifetime,
		timeout:  timeout,
		now:      time.Now,
	}
}

// GetToken returns the cached token for creds, calling fetch when the slot is
// empty or expired. The fetch runs detached from ctx so that a caller
// leaving early does not fail the other waiters; ctx only bounds how long
// this caller waits.
func (c *TokenCache) GetToken(ctx context.Context, creds Credentials, fetch TokenFetcher) (Token, error) {
	key := creds.Key()
	if tok, ok := c.lookup(key); ok {
		return tok, nil
	}

	ch := c.fetchGroup.DoChan(key, func() (interface{}, error) {
		// A flight that finished between lookup and DoChan may have filled the slot.
		if tok, ok := c.lookup(key); ok {
			return tok, nil
		}

		fetchCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.timeout)
			defer cancel()
		}

		tok, err := fetch(fetchCtx)
		if err != nil {
			c.drop(key)
			return Token{}, err
		}
		return c.store(key, tok), nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Token{}, res.Err
		}
		return res.Val.(Token), nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Token{}, fmt.Errorf("waiting for token: %w", ErrTimeout)
		}
		return Token{}, ctx.Err()
	}
}

// Invalidate drops the token held for creds. A fetch already in flight is
// not affected.
func (c *TokenCache) Invalidate(creds Credentials) {
	c.drop(creds.Key())
}

func (c *TokenCache) lookup(key string) (Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tok, ok := c.slots[key]
	if !ok {
		return Token{}, false
	}
	if !tok.Valid(c.now()) {
		delete(c.slots, key)
		return Token{}, false
	}
	return tok, true
}

// store caches tok until the earlier of the safety window and the server
// reported expiry, and returns the token as cached.
func (c *TokenCache) store(key string, tok Token) Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.lifetime)
	if !tok.ExpiresAt.IsZero() && tok.ExpiresAt.Before(expiresAt) {
		expiresAt = tok.ExpiresAt
	}
	tok.ExpiresAt = expiresAt
	c.slots[key] = tok
	return tok
}

func (c *TokenCache) drop(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slots, key)
}
