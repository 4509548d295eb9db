package qubitcrypt

import (
	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/registry"
)

// KEM algorithm identifiers.
const (
	KEMMLKEM512       = oid.MLKEM512
	KEMMLKEM768       = oid.MLKEM768
	KEMMLKEM1024      = oid.MLKEM1024
	KEMX25519         = oid.X25519
	KEMXWing          = oid.XWing
	KEMMLKEM768X25519 = oid.MLKEM768X25519
)

// Signature algorithm identifiers.
const (
	DSAMLDSA44        = oid.MLDSA44
	DSAMLDSA65        = oid.MLDSA65
	DSAMLDSA87        = oid.MLDSA87
	DSAEd25519        = oid.Ed25519
	DSAMLDSA65Ed25519 = oid.MLDSA65Ed25519
)

// ContentEncryptionAlgorithm selects the cipher protecting enveloped content.
type ContentEncryptionAlgorithm string

// Content-encryption algorithms.
const (
	AES128CBC ContentEncryptionAlgorithm = oid.AES128CBC
	AES192CBC ContentEncryptionAlgorithm = oid.AES192CBC
	AES256CBC ContentEncryptionAlgorithm = oid.AES256CBC
)

// KeyDerivationAlgorithm selects the KDF turning a KEM shared secret into a
// key-encryption key.
type KeyDerivationAlgorithm string

// Key derivation algorithms.
const (
	KDFHKDFSHA256 KeyDerivationAlgorithm = oid.HKDFSHA256
	KDFHKDFSHA384 KeyDerivationAlgorithm = oid.HKDFSHA384
	KDFHKDFSHA512 KeyDerivationAlgorithm = oid.HKDFSHA512
	KDFSHAKE128   KeyDerivationAlgorithm = oid.SHAKE128
	KDFSHAKE256   KeyDerivationAlgorithm = oid.SHAKE256
)

// KeyWrapAlgorithm selects how the content-encryption key is wrapped.
type KeyWrapAlgorithm string

// Key wrap algorithms.
const (
	WrapAES128 KeyWrapAlgorithm = oid.AES128Wrap
	WrapAES192 KeyWrapAlgorithm = oid.AES192Wrap
	WrapAES256 KeyWrapAlgorithm = oid.AES256Wrap
)

// AlgorithmName returns a human-readable name for an algorithm identifier,
// or the identifier itself when it is unknown.
func AlgorithmName(id string) string {
	return registry.Name(id)
}

// KEMAlgorithms lists every supported KEM identifier.
func KEMAlgorithms() []string { return registry.KEMs() }

// DSAAlgorithms lists every supported signature identifier.
func DSAAlgorithms() []string { return registry.DSAs() }
