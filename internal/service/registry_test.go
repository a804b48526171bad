package service

import (
	"sync"
	"testing"
	"time"

	"lexibot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistry_PutGetRemove(t *testing.T) {
	r := NewSessionRegistry()

	_, ok := r.Get(1)
	assert.False(t, ok)
	assert.False(t, r.IsActive(1))

	s := &domain.QuizSession{UserID: 1}
	require.True(t, r.Put(s))
	assert.True(t, s.Active)
	assert.True(t, r.IsActive(1))

	got, ok := r.Get(1)
	require.True(t, ok)
	assert.Same(t, s, got)

	// A second session for the same user is refused and the first is kept
	other := &domain.QuizSession{UserID: 1, Cursor: 3}
	assert.False(t, r.Put(other))
	got, _ = r.Get(1)
	assert.Same(t, s, got)
	assert.False(t, other.Active)

	assert.ElementsMatch(t, []int64{1}, r.UserIDs())

	r.Remove(1)
	assert.False(t, s.Active)
	assert.False(t, r.IsActive(1))
	assert.Empty(t, r.UserIDs())

	// Removing twice is harmless
	r.Remove(1)
}

func TestSessionRegistry_LockSerializesSameUser(t *testing.T) {
	r := NewSessionRegistry()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := r.Lock(7)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestSessionRegistry_LockIndependentUsers(t *testing.T) {
	r := NewSessionRegistry()

	unlock := r.Lock(1)
	defer unlock()

	done := make(chan struct{})
	go func() {
		release := r.Lock(2)
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for another user blocked")
	}
}
