package kem

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// randReader is the random source used when a caller passes a nil reader.
// It defaults to crypto/rand but can be overridden for testing.
var randReader io.Reader = rand.Reader

// Info describes a KEM and the fixed sizes of its keys and outputs.
type Info struct {
	// OID is the dotted algorithm identifier.
	OID string
	// Name is a human readable algorithm name.
	Name string

	PublicKeySize    int
	PrivateKeySize   int
	CiphertextSize   int
	SharedSecretSize int
}

// KEM is a key encapsulation mechanism operating on raw encoded keys.
//
// Implementations check every input length before touching the underlying
// primitive and report mismatches with the matching qerrors sentinel.
type KEM interface {
	// Info returns the algorithm description.
	Info() Info

	// GenerateKey returns a new key pair drawn from rand.
	GenerateKey(rand io.Reader) (pk, sk []byte, err error)

	// Encapsulate returns a ciphertext and the shared secret it carries for pk.
	Encapsulate(rand io.Reader, pk []byte) (ct, ss []byte, err error)

	// Decapsulate recovers the shared secret from ct using sk.
	Decapsulate(sk, ct []byte) ([]byte, error)

	// PublicKey derives the public key matching sk.
	PublicKey(sk []byte) ([]byte, error)
}

func randOrDefault(r io.Reader) io.Reader {
	if r == nil {
		return randReader
	}
	return r
}

// readSeed fills a fresh buffer of n bytes from r.
func readSeed(r io.Reader, n int) ([]byte, error) {
	seed := make([]byte, n)
	if _, err := io.ReadFull(randOrDefault(r), seed); err != nil {
		return nil, fmt.Errorf("failed to read random seed: %w", err)
	}
	return seed, nil
}

// readKeySeed is readSeed for key generation.
func readKeySeed(r io.Reader, n int) ([]byte, error) {
	seed, err := readSeed(r, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", qerrors.ErrKeyPairGenerationFailed, err)
	}
	return seed, nil
}

func checkSize(kind error, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: got %d, want %d", kind, got, want)
	}
	return nil
}

func checkPublicKey(info Info, pk []byte) error {
	return checkSize(qerrors.ErrInvalidPublicKey, len(pk), info.PublicKeySize)
}

func checkPrivateKey(info Info, sk []byte) error {
	return checkSize(qerrors.ErrInvalidPrivateKey, len(sk), info.PrivateKeySize)
}

func checkCiphertext(info Info, ct []byte) error {
	return checkSize(qerrors.ErrInvalidCiphertext, len(ct), info.CiphertextSize)
}
