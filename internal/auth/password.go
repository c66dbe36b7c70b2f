package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

// MinBcryptCost is the lowest work factor accepted for stored passwords.
const MinBcryptCost = 12

// MaxPasswordBytes is the longest input bcrypt will hash.
const MaxPasswordBytes = 72

// ValidatePassword rejects passwords that bcrypt would refuse, so callers can
// fail with a client error before doing any irreversible work.
func ValidatePassword(password string) error {
	if len([]byte(password)) > MaxPasswordBytes {
		return apperrors.NewInvalidRequest(
			fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes),
			map[string]any{"max_bytes": MaxPasswordBytes},
		)
	}
	return nil
}

// Hasher hashes passwords off the calling goroutine so a cancelled request
// stops waiting on bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with cost raised to MinBcryptCost if needed.
func NewHasher(cost int) *Hasher {
	return &Hasher{cost: max(cost, MinBcryptCost)}
}

// Cost reports the bcrypt work factor in use.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash hashes a plaintext password.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	type result struct {
		hash []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		done <- result{hash: hashed, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		return string(res.hash), nil
	}
}

// Compare verifies a password against its hashed value.
func (h *Hasher) Compare(ctx context.Context, hashed, plain string) error {
	done := make(chan error, 1)
	go func() {
		done <- bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
