package auth

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

const DefaultHashCost = 10

// PasswordHasher produces and checks bcrypt credential records. At most
// maxConcurrent hash operations run at once; callers beyond that wait on ctx.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted
}

func NewPasswordHasher(cost int, maxConcurrent int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d (allowed %d-%d)", ErrInvalidHashCost, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.GOMAXPROCS(0)
	}

	return &PasswordHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(maxConcurrent)),
	}, nil
}

func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns a self-describing record with a fresh random salt.
func (h *PasswordHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// Verify reports whether plaintext matches record. A wrong password is
// (false, nil); a record that is not a bcrypt hash is (false, ErrMalformedHash).
func (h *PasswordHasher) Verify(ctx context.Context, plaintext string, record string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(record), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}
