package oauth2client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var testCreds = Credentials{PublicKey: "pk", SecretKey: "sk"}

func countingFetcher(calls *int32, value string, expiresAt time.Time) TokenFetcher {
	return func(ctx context.Context) (Token, error) {
		n := atomic.AddInt32(calls, 1)
		return Token{Value: value + string(rune('0'+n)), ExpiresAt: expiresAt}, nil
	}
}

func TestTokenCache_ConcurrentCallersShareOneFetch(t *testing.T) {
	cache := NewTokenCache(0, time.Second)

	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (Token, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return Token{Value: "abc123"}, nil
	}

	const n = 20
	var wg sync.WaitGroup
	results := make([]Token, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.GetToken(context.Background(), testCreds, fetch)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "abc123", results[i].Value)
	}
}

func TestTokenCache_ReusedUntilSafetyWindow(t *testing.T) {
	clock := newFakeClock()
	cache := NewTokenCache(0, 0)
	cache.now = clock.Now

	start := clock.Now()
	var calls int32
	fetch := countingFetcher(&calls, "tok", time.Unix(9999999999, 0))

	first, err := cache.GetToken(context.Background(), testCreds, fetch)
	require.NoError(t, err)
	assert.Equal(t, start.Add(DefaultTokenLifetime), first.ExpiresAt)

	clock.Set(first.ExpiresAt.Add(-time.Second))
	again, err := cache.GetToken(context.Background(), testCreds, fetch)
	require.NoError(t, err)
	assert.Equal(t, first.Value, again.Value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	clock.Set(first.ExpiresAt.Add(time.Second))
	next, err := cache.GetToken(context.Background(), testCreds, fetch)
	require.NoError(t, err)
	assert.NotEqual(t, first.Value, next.Value)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTokenCache_HonorsEarlierServerExpiry(t *testing.T) {
	clock := newFakeClock()
	cache := NewTokenCache(0, 0)
	cache.now = clock.Now

	serverExpiry := clock.Now().Add(10 * time.Minute)
	var calls int32
	fetch := countingFetcher(&calls, "tok", serverExpiry)

	tok, err := cache.GetToken(context.Background(), testCreds, fetch)
	require.NoError(t, err)
	assert.Equal(t, serverExpiry, tok.ExpiresAt)

	clock.Set(serverExpiry)
	_, err = cache.GetToken(context.Background(), testCreds, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "token must not be used at its expiry instant")
}

func TestTokenCache_FailureEmptiesSlotAndNextCallFetches(t *testing.T) {
	cache := NewTokenCache(0, 0)
	boom := errors.New("boom")

	var calls int32
	failing := func(ctx context.Context) (Token, error) {
		atomic.AddInt32(&calls, 1)
		return Token{}, boom
	}

	_, err := cache.GetToken(context.Background(), testCreds, failing)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "a failed fetch is not retried")

	tok, err := cache.GetToken(context.Background(), testCreds, countingFetcher(&calls, "tok", time.Time{}))
	require.NoError(t, err)
	assert.Equal(t, "tok2", tok.Value)
}

func TestTokenCache_FailurePropagatesToAllWaiters(t *testing.T) {
	cache := NewTokenCache(0, 0)
	boom := errors.New("boom")

	release := make(chan struct{})
	fetch := func(ctx context.Context) (Token, error) {
		<-release
		return Token{}, boom
	}

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cache.GetToken(context.Background(), testCreds, fetch)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, boom)
	}
}

func TestTokenCache_WaiterTimeoutDoesNotCancelSharedFetch(t *testing.T) {
	cache := NewTokenCache(0, 0)

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (Token, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
			return Token{}, ctx.Err()
		}
		return Token{Value: "shared"}, nil
	}

	done := make(chan Token)
	go func() {
		tok, err := cache.GetToken(context.Background(), testCreds, fetch)
		assert.NoError(t, err)
		done <- tok
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := cache.GetToken(ctx, testCreds, fetch)
	require.ErrorIs(t, err, ErrTimeout)

	close(release)
	tok := <-done
	assert.Equal(t, "shared", tok.Value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTokenCache_FetchBoundedByTimeout(t *testing.T) {
	cache := NewTokenCache(0, 20*time.Millisecond)

	fetch := func(ctx context.Context) (Token, error) {
		<-ctx.Done()
		return Token{}, ctx.Err()
	}

	_, err := cache.GetToken(context.Background(), testCreds, fetch)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenCache_InvalidateAndSeparateCredentials(t *testing.T) {
	cache := NewTokenCache(0, 0)

	var calls int32
	fetch := countingFetcher(&calls, "tok", time.Time{})
	other := Credentials{PublicKey: "pk2", SecretKey: "sk"}

	a, err := cache.GetToken(context.Background(), testCreds, fetch)
	require.NoError(t, err)
	b, err := cache.GetToken(context.Background(), other, fetch)
	require.NoError(t, err)
	assert.NotEqual(t, a.Value, b.Value)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	cache.Invalidate(testCreds)
	c, err := cache.GetToken(context.Background(), testCreds, fetch)
	require.NoError(t, err)
	assert.NotEqual(t, a.Value, c.Value)

	d, err := cache.GetToken(context.Background(), other, fetch)
	require.NoError(t, err)
	assert.Equal(t, b.Value, d.Value)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCredentials_Key(t *testing.T) {
	assert.Equal(t, testCreds.Key(), Credentials{PublicKey: "pk", SecretKey: "sk"}.Key())
	assert.NotEqual(t, testCreds.Key(), Credentials{PublicKey: "pk", SecretKey: "other"}.Key())
	assert.NotContains(t, testCreds.Key(), "sk")
}
