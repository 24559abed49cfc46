// Package registrytest holds behaviour tests shared by every token.Registry
// implementation.
package registrytest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jrsteele09/go-token-server/sessions"
	"github.com/jrsteele09/go-token-server/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = sessions.Identity{UserID: "1", Username: "alice", Role: "admin"}

// Run exercises a registry returned fresh by newRegistry for every subtest.
func Run(t *testing.T, newRegistry func(t *testing.T) token.Registry) {
	ctx := context.Background()

	t.Run("put and get access", func(t *testing.T) {
		r := newRegistry(t)
		require.NoError(t, r.PutAccess(ctx, "a1", alice))

		identity, ok, err := r.GetAccess(ctx, "a1")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, alice, identity)
	})

	t.Run("namespaces are disjoint", func(t *testing.T) {
		r := newRegistry(t)
		require.NoError(t, r.PutAccess(ctx, "same", alice))

		_, ok, err := r.GetRefresh(ctx, "same")
		require.NoError(t, err)
		require.False(t, ok)

		bob := sessions.Identity{UserID: "2", Username: "bob", Role: "user"}
		require.NoError(t, r.PutRefresh(ctx, "same", bob))

		identity, ok, err := r.GetAccess(ctx, "same")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, alice, identity)

		identity, ok, err = r.GetRefresh(ctx, "same")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, bob, identity)
	})

	t.Run("missing tokens", func(t *testing.T) {
		r := newRegistry(t)
		_, ok, err := r.GetAccess(ctx, "nope")
		require.NoError(t, err)
		require.False(t, ok)

		_, ok, err = r.GetRefresh(ctx, "nope")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("prefix does not match", func(t *testing.T) {
		r := newRegistry(t)
		require.NoError(t, r.PutAccess(ctx, "abcdef", alice))

		_, ok, err := r.GetAccess(ctx, "abc")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("delete access reports presence", func(t *testing.T) {
		r := newRegistry(t)
		require.NoError(t, r.PutAccess(ctx, "a1", alice))

		removed, err := r.DeleteAccess(ctx, "a1")
		require.NoError(t, err)
		require.True(t, removed)

		removed, err = r.DeleteAccess(ctx, "a1")
		require.NoError(t, err)
		require.False(t, removed)

		_, ok, err := r.GetAccess(ctx, "a1")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("len", func(t *testing.T) {
		r := newRegistry(t)
		require.NoError(t, r.PutAccess(ctx, "a1", alice))
		require.NoError(t, r.PutAccess(ctx, "a2", alice))
		require.NoError(t, r.PutRefresh(ctx, "r1", alice))

		access, refresh, err := r.Len(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, access)
		require.Equal(t, 1, refresh)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		r := newRegistry(t)
		const workers = 50

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				identity := sessions.Identity{UserID: fmt.Sprint(i), Username: fmt.Sprintf("user-%d", i), Role: "user"}
				tok := fmt.Sprintf("token-%d", i)
				assert.NoError(t, r.PutAccess(ctx, tok, identity))
				assert.NoError(t, r.PutRefresh(ctx, tok, identity))
				_, _, err := r.GetAccess(ctx, tok)
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		access, refresh, err := r.Len(ctx)
		require.NoError(t, err)
		require.Equal(t, workers, access)
		require.Equal(t, workers, refresh)
	})
}
