package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/nuex/pkg/domain"
	"github.com/aretw0/nuex/pkg/ports"
)

// EnvelopeKey is the only payload key of an encrypted record.
const EnvelopeKey = "__encrypted__"

// ErrInvalidKey is returned for keys that are not 32 bytes long.
var ErrInvalidKey = errors.New("encryption key must be 32 bytes (AES-256)")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new records.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.Journal
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals record payloads with AES-GCM.
// Type, path and timestamp stay readable.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, ErrInvalidKey
	}
	return func(next ports.Journal) ports.Journal {
		return &encryptionMiddleware{next: next, config: config}
	}, nil
}

func (m *encryptionMiddleware) Append(ctx context.Context, rec domain.MutationRecord) error {
	plainText, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload of %s: %w", rec.Qualified(), err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt payload of %s: %w", rec.Qualified(), err)
	}

	rec.Payload = map[string]any{EnvelopeKey: base64.StdEncoding.EncodeToString(ciphertext)}
	return m.next.Append(ctx, rec)
}

func (m *encryptionMiddleware) Recent(ctx context.Context, n int) ([]domain.MutationRecord, error) {
	recs, err := m.next.Recent(ctx, n)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if err := m.open(&recs[i]); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

func (m *encryptionMiddleware) open(rec *domain.MutationRecord) error {
	envelope, _ := rec.Payload.(map[string]any)
	encryptedStr, ok := envelope[EnvelopeKey].(string)
	if !ok {
		return fmt.Errorf("record %s is missing encrypted payload envelope", rec.ID)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return fmt.Errorf("failed to decrypt record %s: %w", rec.ID, err)
	}

	var payload any
	if err := json.Unmarshal(plainText, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal decrypted payload: %w", err)
	}
	rec.Payload = payload
	return nil
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
