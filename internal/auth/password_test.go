package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

func TestHasher_EnforcesMinimumCost(t *testing.T) {
	assert.Equal(t, MinBcryptCost, NewHasher(4).Cost())
	assert.Equal(t, 13, NewHasher(13).Cost())
}

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(MinBcryptCost)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "NewPass123!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, MinBcryptCost, cost)

	assert.NoError(t, h.Compare(ctx, hash, "NewPass123!"))
	assert.Error(t, h.Compare(ctx, hash, "wrong"))
}

func TestHasher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHasher(MinBcryptCost).Hash(ctx, "irrelevant")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword(strings.Repeat("x", MaxPasswordBytes)))

	err := ValidatePassword(strings.Repeat("x", MaxPasswordBytes+1))
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, apperrors.CodeInvalidRequest, de.Code)

	// multi-byte runes count by encoded length
	assert.Error(t, ValidatePassword(strings.Repeat("é", 37)))
}
