package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"

	"github.com/parkops/backend/internal/domain/erpsync"
)

const (
	keySize   = 32 // AES-256
	nonceSize = 16
	tagSize   = 16

	// fallbackPassphrase feeds the derived key when no secret is configured.
	// That path is insecure by design and must never survive into a
	// production deployment; the constructor logs loudly when it is taken.
	fallbackPassphrase = "parkops-erp-sync-fallback-passphrase"
	fallbackSalt       = "parkops-vault"

	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

// ErrInvalidSecret indicates the configured vault secret is not a valid
// hex-encoded AES-256 key
var ErrInvalidSecret = errors.New("vault: invalid secret")

// Vault provides authenticated symmetric encryption for remote ERP
// credentials at rest. The derived key is read-only process-wide state,
// computed once in the constructor and never mutated.
type Vault struct {
	key []byte
}

// New creates a vault keyed by the hex-encoded secret from configuration.
// An empty secret falls back to a key slowly derived from a fixed
// passphrase, which only exists so development setups work out of the box.
func New(secretHex string, logger *zap.Logger) (*Vault, error) {
	if secretHex == "" {
		logger.Warn("vault secret not configured, deriving fallback key from built-in passphrase; " +
			"credentials encrypted this way are NOT protected in production")
		key := argon2.IDKey([]byte(fallbackPassphrase), []byte(fallbackSalt), argon2Time, argon2Memory, argon2Threads, keySize)
		return &Vault{key: key}, nil
	}

	key, err := hex.DecodeString(secretHex)
	if err != nil || len(key) != keySize {
		return nil, fmt.Errorf("%w: must be %d bytes of hex", ErrInvalidSecret, keySize)
	}
	return &Vault{key: key}, nil
}

// Encrypt seals the plaintext with AES-256-GCM under a fresh random nonce
// and returns the envelope hex(nonce):hex(tag):hex(ciphertext).
func (v *Vault) Encrypt(plaintext string) (string, error) {
	gcm, err := v.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("vault: nonce generation failed: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(tag) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt opens an envelope produced by Encrypt. A malformed envelope fails
// with ErrEnvelopeFormat; a failed tag verification (tampered data or wrong
// key) fails with ErrDecryptionFailed. Partial plaintext is never returned.
func (v *Vault) Decrypt(envelope string) (string, error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: expected 3 segments, got %d", erpsync.ErrEnvelopeFormat, len(parts))
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != nonceSize {
		return "", fmt.Errorf("%w: bad nonce segment", erpsync.ErrEnvelopeFormat)
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != tagSize {
		return "", fmt.Errorf("%w: bad tag segment", erpsync.ErrEnvelopeFormat)
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext segment", erpsync.ErrEnvelopeFormat)
	}

	gcm, err := v.aead()
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", erpsync.ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}

func (v *Vault) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return nil, fmt.Errorf("vault: cipher init failed: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("vault: GCM init failed: %w", err)
	}
	return gcm, nil
}

// Ensure Vault implements the domain port
var _ erpsync.CredentialCipher = (*Vault)(nil)
