package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := New("secret-a")

	tok := tokens.TokenForUser("u_demo")
	sub, err := tokens.ParseUserToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u_demo", sub)
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	issued := New("secret-a").TokenForUser("u_demo")

	_, err := New("secret-b").ParseUserToken(issued)
	require.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	tokens := New("secret-a")
	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d", "not.a.token"} {
		_, err := tokens.ParseUserToken(tok)
		assert.Error(t, err, tok)
	}
}
