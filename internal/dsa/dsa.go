// Package dsa provides the digital signature algorithms used by qubitcrypt:
// ML-DSA-44/65/87 (NIST FIPS 204), Ed25519 and the composite
// ML-DSA-65 + Ed25519 signature.
package dsa

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"

	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// Info describes a signature algorithm.
type Info struct {
	OID  string
	Name string

	PublicKeySize  int
	PrivateKeySize int
	SignatureSize  int
}

// DSA is a signature algorithm operating on raw encoded keys.
type DSA interface {
	Info() Info
	GenerateKey(rand io.Reader) (pk, sk []byte, err error)
	Sign(sk, msg []byte) ([]byte, error)
	// Verify returns nil when sig is a valid signature over msg, and an error
	// matching qerrors.ErrInvalidSignature otherwise.
	Verify(pk, msg, sig []byte) error
	PublicKey(sk []byte) ([]byte, error)
}

// Scheme adapts a circl sign.Scheme to the DSA interface.
type Scheme struct {
	info   Info
	scheme sign.Scheme
}

// NewMLDSA44 returns ML-DSA-44.
func NewMLDSA44() *Scheme { return newScheme(oid.MLDSA44, mldsa44.Scheme()) }

// NewMLDSA65 returns ML-DSA-65.
func NewMLDSA65() *Scheme { return newScheme(oid.MLDSA65, mldsa65.Scheme()) }

// NewMLDSA87 returns ML-DSA-87.
func NewMLDSA87() *Scheme { return newScheme(oid.MLDSA87, mldsa87.Scheme()) }

// NewEd25519 returns Ed25519.
func NewEd25519() *Scheme { return newScheme(oid.Ed25519, ed25519.Scheme()) }

func newScheme(id string, s sign.Scheme) *Scheme {
	return &Scheme{
		info: Info{
			OID:            id,
			Name:           s.Name(),
			PublicKeySize:  s.PublicKeySize(),
			PrivateKeySize: s.PrivateKeySize(),
			SignatureSize:  s.SignatureSize(),
		},
		scheme: s,
	}
}

// Info returns the algorithm description.
func (s *Scheme) Info() Info { return s.info }

// GenerateKey derives a key pair from a seed read from rand.
func (s *Scheme) GenerateKey(r io.Reader) ([]byte, []byte, error) {
	if r == nil {
		r = rand.Reader
	}
	seed := make([]byte, s.scheme.SeedSize())
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", qerrors.ErrKeyPairGenerationFailed, err)
	}

	pub, priv := s.scheme.DeriveKey(seed)

	// MarshalBinary never fails for keys from DeriveKey
	pk, _ := pub.MarshalBinary()
	sk, _ := priv.MarshalBinary()
	return pk, sk, nil
}

// Sign returns a deterministic signature over msg.
func (s *Scheme) Sign(sk, msg []byte) ([]byte, error) {
	priv, err := s.privateKey(sk)
	if err != nil {
		return nil, err
	}
	return s.scheme.Sign(priv, msg, nil), nil
}

// Verify checks sig over msg against pk.
func (s *Scheme) Verify(pk, msg, sig []byte) error {
	if len(pk) != s.info.PublicKeySize {
		return fmt.Errorf("%w: got %d, want %d", qerrors.ErrInvalidPublicKey, len(pk), s.info.PublicKeySize)
	}
	if len(sig) != s.info.SignatureSize {
		return fmt.Errorf("%w: got %d, want %d", qerrors.ErrInvalidSignature, len(sig), s.info.SignatureSize)
	}

	pub, err := s.scheme.UnmarshalBinaryPublicKey(pk)
	if err != nil {
		return fmt.Errorf("%w: %w", qerrors.ErrInvalidPublicKey, err)
	}
	if !s.scheme.Verify(pub, msg, sig, nil) {
		return qerrors.ErrInvalidSignature
	}
	return nil
}

// PublicKey derives the verification key from sk.
func (s *Scheme) PublicKey(sk []byte) ([]byte, error) {
	priv, err := s.privateKey(sk)
	if err != nil {
		return nil, err
	}
	pub, ok := priv.Public().(sign.PublicKey)
	if !ok {
		return nil, qerrors.ErrInvalidPrivateKey
	}
	return pub.MarshalBinary()
}

func (s *Scheme) privateKey(sk []byte) (sign.PrivateKey, error) {
	if len(sk) != s.info.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", qerrors.ErrInvalidPrivateKey, len(sk), s.info.PrivateKeySize)
	}
	priv, err := s.scheme.UnmarshalBinaryPrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", qerrors.ErrInvalidPrivateKey, err)
	}
	return priv, nil
}
