// Package keygen generates the SSH key pairs injected into cluster
// nodes when no public key is configured. The private key is PEM-encoded
// PKCS#1, the public key is in authorized_keys format, matching what the
// provisioning layer and the appliance image expect.
package keygen

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// DefaultBits is the RSA key size used when the caller does not ask for
// a specific one.
const DefaultBits = 4096

// KeyPair holds a generated SSH key pair in ready-to-use encodings.
type KeyPair struct {
	// Private is the PEM-encoded PKCS#1 private key.
	Private []byte
	// Public is the public key in authorized_keys format.
	Public []byte
}

// Generate creates a new RSA key pair of the given bit size.
func Generate(bits int) (*KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generate RSA key: %w", err)
	}
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("validate RSA key: %w", err)
	}

	private := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	public, err := ssh.NewPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("derive SSH public key: %w", err)
	}

	return &KeyPair{
		Private: private,
		Public:  ssh.MarshalAuthorizedKey(public),
	}, nil
}
