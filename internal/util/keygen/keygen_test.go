package keygen

import (
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestGenerateProducesParsableKeys(t *testing.T) {
	t.Parallel()

	kp, err := Generate(2048)
	require.NoError(t, err)

	block, rest := pem.Decode(kp.Private)
	require.NotNil(t, block)
	assert.Empty(t, strings.TrimSpace(string(rest)))
	assert.Equal(t, "RSA PRIVATE KEY", block.Type)

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(kp.Public), "ssh-rsa "))
	parsed, _, _, _, err := ssh.ParseAuthorizedKey(kp.Public)
	require.NoError(t, err)

	// The public half must belong to the generated private key.
	derived, err := ssh.NewPublicKey(&key.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, derived.Marshal(), parsed.Marshal())
}

func TestGenerateRejectsTinyKeys(t *testing.T) {
	t.Parallel()

	_, err := Generate(0)
	assert.Error(t, err)
}
