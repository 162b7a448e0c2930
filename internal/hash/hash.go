// Package hash derives and checks bcrypt password hashes. The stored form is the
// modular-crypt string ($2a$<cost>$...), so algorithm, cost and salt travel with it.
package hash

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

var ErrMismatch = errors.New("password does not match")

type Hasher struct {
	cost  int
	sem   *semaphore.Weighted
	dummy []byte
}

// New returns a Hasher that runs at most concurrency bcrypt operations at a time.
func New(cost, concurrency int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("hash concurrency must be at least 1")
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), cost)
	if err != nil {
		return nil, err
	}
	return &Hasher{
		cost:  cost,
		sem:   semaphore.NewWeighted(int64(concurrency)),
		dummy: dummy,
	}, nil
}

func (h *Hasher) Cost() int { return h.cost }

func (h *Hasher) HashPassword(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

// CheckPassword returns nil on a match and ErrMismatch otherwise. A malformed
// stored hash is reported as a mismatch too.
func (h *Hasher) CheckPassword(ctx context.Context, hash, password string) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.sem.Release(1)

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatch
	}
	return nil
}

// BurnCheck performs a comparison against an internal hash of the same cost.
// Used when the user does not exist so the response time matches a wrong password.
func (h *Hasher) BurnCheck(ctx context.Context, password string) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.sem.Release(1)

	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
	return nil
}

// NeedsRehash reports whether hash was produced with a different cost than the
// one configured.
func (h *Hasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost != h.cost
}
