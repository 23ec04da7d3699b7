// Package passwd produces and checks server-keyed argon2id password digests.
//
// Digests are self-describing PHC strings:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<b64 salt>$<b64 key>
//
// so they can be re-verified later without external state. The server secret
// is folded into the password via HMAC-SHA256 before key derivation
// (x/crypto/argon2 has no keyed mode), which means digests are only
// verifiable by a process holding the same secret.
//
// Hashing is CPU-bound on purpose; both Hash and Verify dispatch the work to
// a taskpool.Pool and suspend until the worker finishes, keeping the calling
// goroutine's scheduler free for concurrent requests.
package passwd

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userstore/internal/common"
	"github.com/dmitrijs2005/userstore/internal/taskpool"
	"golang.org/x/crypto/argon2"
)

var (
	errMismatch      = errors.New("password does not match digest")
	errCorruptDigest = errors.New("malformed digest")
)

// Params holds the argon2id cost parameters embedded in every digest.
type Params struct {
	Memory      uint32 // in KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns the cost parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		Memory:      64 * 1024,
		Iterations:  1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher derives and verifies password digests. It is immutable after
// construction and safe for concurrent use; build one at startup and share
// it by reference.
type Hasher struct {
	secret []byte
	params Params
	pool   *taskpool.Pool
}

// NewHasher builds a Hasher with the given server secret, cost parameters
// and worker pool. The secret must not be empty and every Params field must
// be non-zero; argon2 panics on zero costs, so a bad configuration fails
// here at startup rather than on the first hash.
func NewHasher(secret []byte, params Params, pool *taskpool.Pool) (*Hasher, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty hasher secret", common.ErrInvalidArgument)
	}
	if pool == nil {
		return nil, fmt.Errorf("%w: nil worker pool", common.ErrInvalidArgument)
	}
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 ||
		params.SaltLength == 0 || params.KeyLength == 0 {
		return nil, fmt.Errorf("%w: zero-valued hash parameter", common.ErrInvalidArgument)
	}

	s := make([]byte, len(secret))
	copy(s, secret)

	return &Hasher{secret: s, params: params, pool: pool}, nil
}

// Hash derives a digest for password with a fresh random salt. The work runs
// on the pool; a full or closed pool yields an error wrapping
// common.ErrTaskDispatch.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	res := make(chan string, 1)

	err := h.pool.Submit(ctx, func() {
		res <- h.hash(password)
	})
	if err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case encoded := <-res:
		return encoded, nil
	}
}

// Verify checks password against an encoded digest. Any failure, whether a
// mismatch or a corrupt digest, is reported as common.ErrCredentialFailure
// so callers cannot tell the two apart. Dispatch failures wrap
// common.ErrTaskDispatch instead.
func (h *Hasher) Verify(ctx context.Context, password, encoded string) error {
	res := make(chan error, 1)

	err := h.pool.Submit(ctx, func() {
		res <- h.verify(password, encoded)
	})
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case verr := <-res:
		if verr != nil {
			return common.ErrCredentialFailure
		}
		return nil
	}
}

// keyedInput folds the server secret into the password. The HMAC output, not
// the raw password, is what argon2 derives from.
func (h *Hasher) keyedInput(password string) []byte {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

func (h *Hasher) hash(password string) string {
	salt := common.GenerateRandByteArray(int(h.params.SaltLength))

	input := h.keyedInput(password)
	defer common.WipeByteArray(input)

	key := argon2.IDKey(input, salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return encodeDigest(h.params, salt, key)
}

func (h *Hasher) verify(password, encoded string) error {
	params, salt, key, err := decodeDigest(encoded)
	if err != nil {
		return err
	}

	input := h.keyedInput(password)
	defer common.WipeByteArray(input)

	// Recompute with the parameters embedded in the digest, not the
	// hasher's current ones, so old digests stay verifiable after a cost
	// bump.
	candidate := argon2.IDKey(input, salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)
	defer common.WipeByteArray(candidate)

	if subtle.ConstantTimeCompare(key, candidate) != 1 {
		return errMismatch
	}
	return nil
}

func encodeDigest(p Params, salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

func decodeDigest(encoded string) (Params, []byte, []byte, error) {
	var p Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, nil, nil, errCorruptDigest
	}
	if parts[1] != "argon2id" {
		return p, nil, nil, errCorruptDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errCorruptDigest
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, errCorruptDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, errCorruptDigest
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, errCorruptDigest
	}

	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	return p, salt, key, nil
}
