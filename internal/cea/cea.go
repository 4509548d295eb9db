// Package cea provides the content-encryption algorithms for enveloped data:
// AES-128/192/256 in CBC mode with PKCS#7 padding.
package cea

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// Cipher encrypts content under a content-encryption key.
type Cipher interface {
	OID() string
	KeySize() int
	// Encrypt returns a fresh IV drawn from rand and the ciphertext.
	Encrypt(rand io.Reader, key, plaintext []byte) (iv, ciphertext []byte, err error)
	Decrypt(key, iv, ciphertext []byte) ([]byte, error)
}

// AESCBC is AES-CBC with PKCS#7 padding.
type AESCBC struct {
	id      string
	keySize int
}

// NewAES128CBC returns AES-128-CBC.
func NewAES128CBC() *AESCBC { return &AESCBC{id: oid.AES128CBC, keySize: 16} }

// NewAES192CBC returns AES-192-CBC.
func NewAES192CBC() *AESCBC { return &AESCBC{id: oid.AES192CBC, keySize: 24} }

// NewAES256CBC returns AES-256-CBC.
func NewAES256CBC() *AESCBC { return &AESCBC{id: oid.AES256CBC, keySize: 32} }

// OID returns the algorithm identifier.
func (c *AESCBC) OID() string { return c.id }

// KeySize returns the key length in bytes.
func (c *AESCBC) KeySize() int { return c.keySize }

// Encrypt pads plaintext and encrypts it under key with a random IV.
func (c *AESCBC) Encrypt(r io.Reader, key, plaintext []byte) ([]byte, []byte, error) {
	if len(key) != c.keySize {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", qerrors.ErrInvalidKeySize, len(key), c.keySize)
	}
	if r == nil {
		r = rand.Reader
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(r, iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return iv, ciphertext, nil
}

// Decrypt decrypts ciphertext and strips the padding. Every failure after the
// key size check matches qerrors.ErrDecryptionFailed.
func (c *AESCBC) Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if len(key) != c.keySize {
		return nil, fmt.Errorf("%w: got %d, want %d", qerrors.ErrInvalidKeySize, len(key), c.keySize)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: IV is %d bytes", qerrors.ErrDecryptionFailed, len(iv))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is %d bytes", qerrors.ErrDecryptionFailed, len(ciphertext))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func pkcs7Pad(plaintext []byte, blockSize int) []byte {
	pad := blockSize - len(plaintext)%blockSize
	padded := make([]byte, len(plaintext)+pad)
	copy(padded, plaintext)
	for i := len(plaintext); i < len(padded); i++ {
		padded[i] = byte(pad)
	}
	return padded
}

func pkcs7Unpad(plaintext []byte, blockSize int) ([]byte, error) {
	pad := int(plaintext[len(plaintext)-1])
	if pad == 0 || pad > blockSize || pad > len(plaintext) {
		return nil, fmt.Errorf("%w: bad padding", qerrors.ErrDecryptionFailed)
	}
	for _, b := range plaintext[len(plaintext)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("%w: bad padding", qerrors.ErrDecryptionFailed)
		}
	}
	return plaintext[:len(plaintext)-pad], nil
}
