// Package password hashes and verifies account passwords with bcrypt.
//
// bcrypt embeds a random salt and the cost in its output, so two hashes of the
// same password differ but both verify. CompareHashAndPassword compares the
// digests in constant time.
package password

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// Runner executes fn, possibly on another goroutine, and returns once fn has
// finished or ctx is done.
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

type inline struct{}

func (inline) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}

// Hasher hashes and verifies passwords. bcrypt work is handed to its Runner
// so that a worker pool can bound how many hashes run at once.
type Hasher struct {
	cost   int
	runner Runner
}

type Option func(*Hasher)

// WithRunner routes bcrypt work through r.
func WithRunner(r Runner) Option {
	return func(h *Hasher) {
		if r != nil {
			h.runner = r
		}
	}
}

// NewHasher returns a Hasher with the given cost. Costs outside bcrypt's
// accepted range fall back to DefaultCost.
func NewHasher(cost int, opts ...Option) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	h := &Hasher{cost: cost, runner: inline{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns the encoded bcrypt hash of plain.
func (h *Hasher) Hash(ctx context.Context, plain string) (string, error) {
	var (
		out     string
		hashErr error
	)
	if err := h.runner.Do(ctx, func() { out, hashErr = Hash(plain, h.cost) }); err != nil {
		return "", err
	}
	return out, hashErr
}

// Verify reports whether plain matches hash. A malformed hash is an error;
// a plain mismatch is not.
func (h *Hasher) Verify(ctx context.Context, plain, hash string) (bool, error) {
	var (
		ok        bool
		verifyErr error
	)
	if err := h.runner.Do(ctx, func() { ok, verifyErr = Compare(plain, hash) }); err != nil {
		return false, err
	}
	return ok, verifyErr
}

// Hash is the pure form of Hasher.Hash.
func Hash(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(b), nil
}

// Compare is the pure form of Hasher.Verify.
func Compare(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("password: compare: %w", err)
	}
}
