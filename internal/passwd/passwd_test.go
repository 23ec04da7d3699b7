package passwd

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/userstore/internal/common"
	"github.com/dmitrijs2005/userstore/internal/taskpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testParams keeps argon2 cheap enough for the race detector.
func testParams() Params {
	return Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	pool := taskpool.New(2, 4)
	t.Cleanup(pool.Close)

	h, err := NewHasher([]byte("mysecret"), testParams(), pool)
	require.NoError(t, err)
	return h
}

func TestNewHasher_EmptySecret(t *testing.T) {
	pool := taskpool.New(1, 1)
	defer pool.Close()

	_, err := NewHasher(nil, testParams(), pool)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestNewHasher_NilPool(t *testing.T) {
	_, err := NewHasher([]byte("mysecret"), testParams(), nil)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestNewHasher_ZeroParams(t *testing.T) {
	pool := taskpool.New(1, 1)
	defer pool.Close()

	// argon2 panics on zero costs, so construction must refuse them.
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero memory", func(p *Params) { p.Memory = 0 }},
		{"zero iterations", func(p *Params) { p.Iterations = 0 }},
		{"zero parallelism", func(p *Params) { p.Parallelism = 0 }},
		{"zero salt length", func(p *Params) { p.SaltLength = 0 }},
		{"zero key length", func(p *Params) { p.KeyLength = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testParams()
			tt.mutate(&params)

			h, err := NewHasher([]byte("mysecret"), params, pool)
			assert.ErrorIs(t, err, common.ErrInvalidArgument)
			assert.Nil(t, h)
		})
	}
}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	encoded, err := h.Hash(ctx, "dev_only_pass")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"), "digest: %s", encoded)
	assert.NotContains(t, encoded, "dev_only_pass")

	require.NoError(t, h.Verify(ctx, "dev_only_pass", encoded))
}

func TestHash_DistinctSalts(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	first, err := h.Hash(ctx, "same_password")
	require.NoError(t, err)
	second, err := h.Hash(ctx, "same_password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, h.Verify(ctx, "same_password", first))
	assert.NoError(t, h.Verify(ctx, "same_password", second))
}

func TestVerify_WrongPassword(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	encoded, err := h.Hash(ctx, "correct_password")
	require.NoError(t, err)

	err = h.Verify(ctx, "wrong_password", encoded)
	assert.ErrorIs(t, err, common.ErrCredentialFailure)
}

func TestVerify_DifferentSecret(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	encoded, err := h.Hash(ctx, "dev_only_pass")
	require.NoError(t, err)

	pool := taskpool.New(1, 1)
	defer pool.Close()
	other, err := NewHasher([]byte("othersecret"), testParams(), pool)
	require.NoError(t, err)

	err = other.Verify(ctx, "dev_only_pass", encoded)
	assert.ErrorIs(t, err, common.ErrCredentialFailure)
}

func TestVerify_CorruptDigest(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	tests := map[string]string{
		"empty":              "",
		"not a digest":       "plainly not a digest",
		"wrong algorithm":    "$argon2i$v=19$m=8192,t=1,p=1$c29tZXNhbHQ$c29tZWtleQ",
		"wrong version":      "$argon2id$v=18$m=8192,t=1,p=1$c29tZXNhbHQ$c29tZWtleQ",
		"bad cost params":    "$argon2id$v=19$m=abc,t=1,p=1$c29tZXNhbHQ$c29tZWtleQ",
		"bad base64 salt":    "$argon2id$v=19$m=8192,t=1,p=1$???$c29tZWtleQ",
		"bad base64 key":     "$argon2id$v=19$m=8192,t=1,p=1$c29tZXNhbHQ$???",
		"missing components": "$argon2id$v=19$m=8192,t=1,p=1$c29tZXNhbHQ",
	}

	for name, digest := range tests {
		t.Run(name, func(t *testing.T) {
			err := h.Verify(ctx, "whatever", digest)
			// Corrupt digests must be indistinguishable from mismatches.
			assert.ErrorIs(t, err, common.ErrCredentialFailure)
		})
	}
}

func TestVerify_HonorsEmbeddedParams(t *testing.T) {
	h := newTestHasher(t)
	ctx := context.Background()

	encoded, err := h.Hash(ctx, "dev_only_pass")
	require.NoError(t, err)

	// A hasher configured with different costs must still verify digests
	// produced under the old parameters.
	pool := taskpool.New(1, 1)
	defer pool.Close()
	bumped, err := NewHasher([]byte("mysecret"), Params{
		Memory:      16 * 1024,
		Iterations:  2,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}, pool)
	require.NoError(t, err)

	assert.NoError(t, bumped.Verify(ctx, "dev_only_pass", encoded))
}

func TestHash_DispatchFailure(t *testing.T) {
	pool := taskpool.New(1, 1)
	h, err := NewHasher([]byte("mysecret"), testParams(), pool)
	require.NoError(t, err)

	pool.Close()

	_, err = h.Hash(context.Background(), "dev_only_pass")
	assert.ErrorIs(t, err, common.ErrTaskDispatch)
	assert.NotErrorIs(t, err, common.ErrCredentialFailure)

	err = h.Verify(context.Background(), "dev_only_pass", "$argon2id$...")
	assert.ErrorIs(t, err, common.ErrTaskDispatch)
}

func TestHash_CancelledContext(t *testing.T) {
	h := newTestHasher(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "dev_only_pass")
	assert.ErrorIs(t, err, context.Canceled)
}
