// Package wrap provides the AES key wrap algorithms (RFC 3394) used to protect
// the content-encryption key for each recipient.
package wrap

import (
	"crypto/aes"
	"fmt"

	josecipher "github.com/go-jose/go-jose/v3/cipher"

	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// Wrapper wraps and unwraps keys under a key-encryption key.
type Wrapper interface {
	OID() string
	// KeySize is the required key-encryption key length in bytes.
	KeySize() int
	Wrap(kek, cek []byte) ([]byte, error)
	Unwrap(kek, wrapped []byte) ([]byte, error)
}

// AESKeyWrap is AES key wrap with a fixed KEK length.
type AESKeyWrap struct {
	id      string
	keySize int
}

// NewAES128 returns AES-128 key wrap.
func NewAES128() *AESKeyWrap { return &AESKeyWrap{id: oid.AES128Wrap, keySize: 16} }

// NewAES192 returns AES-192 key wrap.
func NewAES192() *AESKeyWrap { return &AESKeyWrap{id: oid.AES192Wrap, keySize: 24} }

// NewAES256 returns AES-256 key wrap.
func NewAES256() *AESKeyWrap { return &AESKeyWrap{id: oid.AES256Wrap, keySize: 32} }

// OID returns the algorithm identifier.
func (w *AESKeyWrap) OID() string { return w.id }

// KeySize returns the KEK length in bytes.
func (w *AESKeyWrap) KeySize() int { return w.keySize }

// Wrap wraps cek, which must be at least 16 bytes and a multiple of 8.
func (w *AESKeyWrap) Wrap(kek, cek []byte) ([]byte, error) {
	if len(kek) != w.keySize {
		return nil, fmt.Errorf("%w: got %d, want %d", qerrors.ErrInvalidKeySize, len(kek), w.keySize)
	}
	if len(cek) < 16 || len(cek)%8 != 0 {
		return nil, fmt.Errorf("%w: cannot wrap %d byte key", qerrors.ErrInvalidKeySize, len(cek))
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return josecipher.KeyWrap(block, cek)
}

// Unwrap reverses Wrap and checks the RFC 3394 integrity value.
func (w *AESKeyWrap) Unwrap(kek, wrapped []byte) ([]byte, error) {
	if len(kek) != w.keySize {
		return nil, fmt.Errorf("%w: got %d, want %d", qerrors.ErrInvalidKeySize, len(kek), w.keySize)
	}
	if len(wrapped) < 24 || len(wrapped)%8 != 0 {
		return nil, fmt.Errorf("%w: wrapped key is %d bytes", qerrors.ErrDecryptionFailed, len(wrapped))
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	cek, err := josecipher.KeyUnwrap(block, wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", qerrors.ErrDecryptionFailed, err)
	}
	return cek, nil
}
