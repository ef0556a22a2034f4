package ports

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLockerContract runs a suite of tests to verify that a DistributedLocker
// implementation adheres to the defined interface contract.
func RunLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405.000000")

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err, "Lock should not return error")
		require.NotNil(t, unlock)
		require.NoError(t, unlock(ctx), "Unlock should not return error")

		// The key is free again.
		unlock, err = locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))
	})

	t.Run("Held Lock Blocks Until Context Done", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		defer func() { _ = unlock(ctx) }()

		waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(waitCtx, key, 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Independent Keys", func(t *testing.T) {
		u1, err := locker.Lock(ctx, key+"-a", 5*time.Second)
		require.NoError(t, err)
		u2, err := locker.Lock(ctx, key+"-b", 5*time.Second)
		require.NoError(t, err)
		assert.NoError(t, u1(ctx))
		assert.NoError(t, u2(ctx))
	})

	t.Run("Mutual Exclusion", func(t *testing.T) {
		var (
			inside  atomic.Int32
			overlap atomic.Bool
			wg      sync.WaitGroup
		)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Lock(ctx, key+"-mx", 5*time.Second)
				if !assert.NoError(t, err) {
					return
				}
				if inside.Add(1) > 1 {
					overlap.Store(true)
				}
				time.Sleep(10 * time.Millisecond)
				inside.Add(-1)
				assert.NoError(t, unlock(ctx))
			}()
		}
		wg.Wait()
		assert.False(t, overlap.Load(), "two holders were inside the lock at once")
	})
}
