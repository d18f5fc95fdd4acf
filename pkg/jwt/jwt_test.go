package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate("s3cret", "u1", "admin@ampliart.com.br", "admin", "ampliart-api", 5)
	require.NoError(t, err)

	claims, err := Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin@ampliart.com.br", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "ampliart-api", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("s3cret", "u1", "a@b.c", "vendedor", "ampliart-api", 5)
	require.NoError(t, err)

	_, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("s3cret", "u1", "a@b.c", "vendedor", "ampliart-api", -1)
	require.NoError(t, err)

	_, err = Parse("s3cret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "u1", "a@b.c", "admin", "x", 5)
	assert.Error(t, err)
}
