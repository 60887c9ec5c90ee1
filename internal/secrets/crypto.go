package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	kerrors "github.com/PolarWolf314/envsync/internal/errors"

	"golang.org/x/crypto/nacl/box"
)

// PublicKeySize is the length of a decoded Curve25519 public key.
const PublicKeySize = 32

// PublicKey is a registry public key as published by the registry.
type PublicKey struct {
	// KeyID identifies the key the ciphertext was sealed against.
	KeyID string

	// Key is the base64 encoded Curve25519 public key.
	Key string
}

// EncryptedValue is a sealed secret ready to be sent to the registry.
type EncryptedValue struct {
	// Ciphertext is the base64 encoded sealed box.
	Ciphertext string

	KeyID string
}

// Seal encrypts plaintext with an anonymous sealed box against key.
func Seal(plaintext []byte, key PublicKey) (EncryptedValue, error) {
	recipient, err := decodePublicKey(key)
	if err != nil {
		return EncryptedValue{}, err
	}

	sealed, err := box.SealAnonymous(nil, plaintext, recipient, rand.Reader)
	if err != nil {
		return EncryptedValue{}, fmt.Errorf("%w: %v", kerrors.ErrSealFailed, err)
	}

	return EncryptedValue{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
		KeyID:      key.KeyID,
	}, nil
}

func decodePublicKey(key PublicKey) (*[PublicKeySize]byte, error) {
	if key.KeyID == "" {
		return nil, fmt.Errorf("%w: missing key id", kerrors.ErrInvalidPublicKey)
	}

	raw, err := base64.StdEncoding.DecodeString(key.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPublicKey, err)
	}
	if len(raw) != PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidPublicKey, PublicKeySize, len(raw))
	}

	var recipient [PublicKeySize]byte
	copy(recipient[:], raw)
	return &recipient, nil
}

// GeneratePassphrase returns a URL-safe random passphrase built from n random bytes.
func GeneratePassphrase(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("passphrase length must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
