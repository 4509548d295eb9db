// Package kdf provides the key derivation functions used to turn a KEM shared
// secret into a key-encryption key.
package kdf

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"

	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// KDF derives length bytes of keying material from secret and info.
type KDF interface {
	OID() string
	Derive(secret, info []byte, length int) ([]byte, error)
}

// HKDF is HKDF (RFC 5869) with an empty salt, as profiled for CMS by RFC 8619.
type HKDF struct {
	id   string
	hash func() hash.Hash
}

// NewHKDFSHA256 returns HKDF-SHA256.
func NewHKDFSHA256() *HKDF { return &HKDF{id: oid.HKDFSHA256, hash: sha256.New} }

// NewHKDFSHA384 returns HKDF-SHA384.
func NewHKDFSHA384() *HKDF { return &HKDF{id: oid.HKDFSHA384, hash: sha512.New384} }

// NewHKDFSHA512 returns HKDF-SHA512.
func NewHKDFSHA512() *HKDF { return &HKDF{id: oid.HKDFSHA512, hash: sha512.New} }

// OID returns the algorithm identifier.
func (h *HKDF) OID() string { return h.id }

// Derive runs HKDF extract-then-expand.
func (h *HKDF) Derive(secret, info []byte, length int) ([]byte, error) {
	if length <= 0 || length > 255*h.hash().Size() {
		return nil, fmt.Errorf("%w: HKDF output length %d", qerrors.ErrInvalidKeySize, length)
	}

	reader := hkdf.New(h.hash, secret, nil, info)
	key := make([]byte, length)

	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}

// SHAKE uses SHAKE128 or SHAKE256 over secret || info as an XOF KDF.
type SHAKE struct {
	id  string
	new func() sha3.ShakeHash
}

// NewSHAKE128 returns the SHAKE128 KDF.
func NewSHAKE128() *SHAKE { return &SHAKE{id: oid.SHAKE128, new: sha3.NewShake128} }

// NewSHAKE256 returns the SHAKE256 KDF.
func NewSHAKE256() *SHAKE { return &SHAKE{id: oid.SHAKE256, new: sha3.NewShake256} }

// OID returns the algorithm identifier.
func (s *SHAKE) OID() string { return s.id }

// Derive absorbs secret then info and squeezes length bytes.
func (s *SHAKE) Derive(secret, info []byte, length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: SHAKE output length %d", qerrors.ErrInvalidKeySize, length)
	}

	h := s.new()
	h.Write(secret)
	h.Write(info)

	key := make([]byte, length)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
