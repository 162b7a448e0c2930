package hash

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := New(bcrypt.MinCost, 2)
	require.NoError(t, err)
	return h
}

func TestNew_RejectsBadParams(t *testing.T) {
	_, err := New(bcrypt.MinCost-1, 1)
	assert.Error(t, err)

	_, err = New(bcrypt.MaxCost+1, 1)
	assert.Error(t, err)

	_, err = New(bcrypt.MinCost, 0)
	assert.Error(t, err)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	hashed, err := h.HashPassword(ctx, "Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123!", hashed)
	assert.True(t, strings.HasPrefix(hashed, "$2a$04$"), "hash must be self-describing: %s", hashed)

	require.NoError(t, h.CheckPassword(ctx, hashed, "Secret123!"))
	assert.ErrorIs(t, h.CheckPassword(ctx, hashed, "wrong"), ErrMismatch)
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	a, err := h.HashPassword(ctx, "same")
	require.NoError(t, err)
	b, err := h.HashPassword(ctx, "same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	h := newTestHasher(t)
	assert.ErrorIs(t, h.CheckPassword(context.Background(), "not-a-hash", "pw"), ErrMismatch)
}

func TestNeedsRehash(t *testing.T) {
	h := newTestHasher(t)

	current, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	older, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost+1)
	require.NoError(t, err)

	assert.False(t, h.NeedsRehash(string(current)))
	assert.True(t, h.NeedsRehash(string(older)))
	assert.True(t, h.NeedsRehash("garbage"))
}

func TestHasher_AcquireHonoursContext(t *testing.T) {
	h, err := New(bcrypt.MinCost, 1)
	require.NoError(t, err)

	// occupy the only slot
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = h.HashPassword(ctx, "pw")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, h.BurnCheck(ctx, "pw"), context.DeadlineExceeded)
}
