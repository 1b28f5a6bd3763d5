// Package crypto encrypts API tokens at rest so the config file can be
// synced or backed up without exposing credentials.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 100000
	keySize    = 32 // AES-256
)

// Encryptor derives an AES-GCM key from a passphrase. A nil Encryptor
// passes values through unchanged, so callers never branch on whether
// encryption is configured.
type Encryptor struct {
	key []byte
}

// NewEncryptor returns an encryptor for the given passphrase, or nil
// when the passphrase is empty.
func NewEncryptor(passphrase string) *Encryptor {
	if passphrase == "" {
		return nil
	}

	// The salt is derived from the passphrase so no separate salt file
	// needs to travel with the config.
	salt := sha256.Sum256([]byte(passphrase + "meowmap-token-salt"))
	key := pbkdf2.Key([]byte(passphrase), salt[:], iterations, keySize, sha256.New)

	return &Encryptor{key: key}
}

// Encrypt encrypts plaintext with AES-GCM and returns it base64-encoded.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if e == nil || e.key == nil {
		return plaintext, nil
	}
	if plaintext == "" {
		return "", nil
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts a base64-encoded AES-GCM ciphertext. Input that is
// not valid base64 or does not decrypt is returned unchanged, so plain
// unencrypted tokens in the config keep working.
func (e *Encryptor) Decrypt(ciphertext string) (string, error) {
	if e == nil || e.key == nil {
		return ciphertext, nil
	}
	if ciphertext == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return ciphertext, nil
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, cipherData := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, cipherData, nil)
	if err != nil {
		return ciphertext, nil
	}

	return string(plaintext), nil
}
