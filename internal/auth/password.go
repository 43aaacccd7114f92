package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/conduit/internal/apperr"
	"golang.org/x/crypto/argon2"
)

// Params tunes the argon2id cost.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams follows the argon2id baseline of 64 MiB, 3 passes.
var DefaultParams = Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

var errMalformedHash = errors.New("malformed argon2id hash")

// Hasher runs argon2id derivations on a bounded set of worker slots, off the
// calling goroutine. Callers wait on their context.
type Hasher struct {
	params  Params
	slots   chan struct{}
	timeout time.Duration
	observe func(op string, elapsed time.Duration)
}

// NewHasher creates a Hasher with at most workers derivations in flight.
// A non-positive timeout disables the per-call deadline.
func NewHasher(params Params, workers int, timeout time.Duration) *Hasher {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Hasher{
		params:  params,
		slots:   make(chan struct{}, workers),
		timeout: timeout,
	}
}

// OnComplete registers a callback receiving the duration of each derivation.
func (h *Hasher) OnComplete(fn func(op string, elapsed time.Duration)) {
	h.observe = fn
}

// Hash derives an encoded argon2id hash with a fresh random salt.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	return offload(ctx, h, "hash", func() (string, error) {
		salt := make([]byte, h.params.SaltLength)
		if _, err := rand.Read(salt); err != nil {
			return "", apperr.Server("could not hash password", err)
		}
		key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)
		return encodeHash(h.params, salt, key), nil
	})
}

// Verify reports whether password matches encoded. A mismatch is not an error.
func (h *Hasher) Verify(ctx context.Context, password, encoded string) (bool, error) {
	return offload(ctx, h, "verify", func() (bool, error) {
		params, salt, key, err := decodeHash(encoded)
		if err != nil {
			return false, apperr.Server("could not verify password", err)
		}
		other := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)
		return subtle.ConstantTimeCompare(key, other) == 1, nil
	})
}

func offload[T any](ctx context.Context, h *Hasher, op string, work func() (T, error)) (T, error) {
	var zero T
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	select {
	case h.slots <- struct{}{}:
	case <-ctx.Done():
		return zero, apperr.Timeout("password check timed out", ctx.Err())
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		defer func() { <-h.slots }()
		started := time.Now()
		value, err := work()
		if h.observe != nil {
			h.observe(op, time.Since(started))
		}
		done <- result{value: value, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return zero, apperr.Timeout("password check timed out", ctx.Err())
	}
}

func encodeHash(p Params, salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %v", errMalformedHash, err)
	}
	if version != argon2.Version {
		return Params{}, nil, nil, fmt.Errorf("%w: unsupported version %d", errMalformedHash, version)
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %v", errMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %v", errMalformedHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, errMalformedHash
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	return p, salt, key, nil
}
