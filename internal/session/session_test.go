package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueValidateRevoke(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemoryStore(nil), "test-secret", time.Hour, nil)

	token, err := mgr.Issue(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, mgr.Validate(ctx, token))

	mgr.Revoke(ctx, token)
	assert.False(t, mgr.Validate(ctx, token), "revoked session is dead even though the token has not expired")
}

func TestValidate_RejectsGarbageAndForeignKeys(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemoryStore(nil), "test-secret", time.Hour, nil)

	assert.False(t, mgr.Validate(ctx, ""))
	assert.False(t, mgr.Validate(ctx, "not-a-token"))

	other := NewManager(NewMemoryStore(nil), "different-secret", time.Hour, nil)
	token, err := other.Issue(ctx)
	require.NoError(t, err)
	assert.False(t, mgr.Validate(ctx, token), "token signed with another key")
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	store := NewMemoryStore(func() time.Time { return current })

	require.NoError(t, store.Create(ctx, "sid", time.Hour))

	ok, err := store.Authenticated(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, ok)

	current = current.Add(2 * time.Hour)
	ok, err = store.Authenticated(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries read as unauthenticated")
}

func TestIssue_DistinctSessions(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemoryStore(nil), "test-secret", time.Hour, nil)

	a, err := mgr.Issue(ctx)
	require.NoError(t, err)
	b, err := mgr.Issue(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	// revoking one leaves the other live
	mgr.Revoke(ctx, a)
	assert.False(t, mgr.Validate(ctx, a))
	assert.True(t, mgr.Validate(ctx, b))
}
