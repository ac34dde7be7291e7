package credentials

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"signin-portal/internal/signin"
)

func TestHashAndVerify(t *testing.T) {
	hash, version, err := HashPassword("correct-horse")
	require.NoError(t, err)
	assert.Equal(t, HashVersionBcrypt, version)

	assert.NoError(t, VerifyPassword(hash, "correct-horse"))
	assert.ErrorIs(t, VerifyPassword(hash, "wrong-horse"), bcrypt.ErrMismatchedHashAndPassword)
}

func TestHashPasswordBounds(t *testing.T) {
	_, _, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, _, err = HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestUnavailableErrorMessages(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:5432: connection refused")
	err := error(&unavailableError{cause: cause})

	assert.True(t, IsUnavailable(err))
	assert.False(t, IsUnavailable(ErrInvalidCredentials))
	assert.ErrorIs(t, err, cause)

	f := signin.AsFailure(err)
	assert.Equal(t, "Sign in is temporarily unavailable. Please try again later.", f.Message)
	assert.Equal(t, "invalid email or password", signin.AsFailure(ErrInvalidCredentials).Message)
}
