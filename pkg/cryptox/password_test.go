package cryptox_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shortly/shortly-api/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashAndVerifyRoundTrip(t *testing.T) {
	hash, err := cryptox.HashPassword("Str0ng!Pass")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, cryptox.VerifyPassword("Str0ng!Pass", hash))
}

func TestHashProducesFreshSalt(t *testing.T) {
	h1, err := cryptox.HashPassword("same-password")
	require.NoError(t, err)
	h2, err := cryptox.HashPassword("same-password")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
	require.NoError(t, cryptox.VerifyPassword("same-password", h1))
	require.NoError(t, cryptox.VerifyPassword("same-password", h2))
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	hash, err := cryptox.HashPassword("correct-horse")
	require.NoError(t, err)

	err = cryptox.VerifyPassword("battery-staple", hash)
	require.ErrorIs(t, err, cryptox.ErrPasswordMismatch)
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	_, err := cryptox.HashPassword("")
	require.ErrorIs(t, err, cryptox.ErrEmptyPassword)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=19456,t=2,p=1$onlyfourparts",
		"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=y,p=z$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
	}
	for _, c := range cases {
		err := cryptox.VerifyPassword("whatever", c)
		require.ErrorIs(t, err, cryptox.ErrMalformedHash, "hash: %q", c)
	}
}
