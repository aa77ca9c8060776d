// Package cryptox holds the primitives behind the encrypted secure store:
// argon2id key derivation and AES-GCM sealing of individual values.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/weightkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys produced by DeriveStoreKey (AES-256).
const KeySize = 32

// ErrCiphertextTooShort is returned by Open when the sealed blob cannot even
// hold a nonce.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// DeriveStoreKey stretches a device secret into an AES-256 key with argon2id.
func DeriveStoreKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// Seal encrypts plaintext with AES-GCM under key. The random nonce is
// prepended to the returned blob. aad binds the blob to its context (the
// store key name), so a value cannot be swapped to another key unnoticed.
func Seal(key, plaintext, aad []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())

	// nonce || ciphertext
	return aesgcm.Seal(nonce, nonce, plaintext, aad), nil
}

// Open reverses Seal. It fails if the blob was produced under another key or
// aad, or has been tampered with.
func Open(key, sealed, aad []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := aesgcm.NonceSize()
	if len(sealed) < ns {
		return nil, ErrCiphertextTooShort
	}

	return aesgcm.Open(nil, sealed[:ns], sealed[ns:], aad)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
