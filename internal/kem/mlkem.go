package kem

import (
	"fmt"
	"io"

	circlkem "github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
	"github.com/cloudflare/circl/kem/mlkem/mlkem512"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"

	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// MLKEM adapts a circl ML-KEM scheme to the KEM interface.
type MLKEM struct {
	info   Info
	scheme circlkem.Scheme
}

// NewMLKEM512 returns ML-KEM-512.
func NewMLKEM512() *MLKEM { return newMLKEM(oid.MLKEM512, mlkem512.Scheme()) }

// NewMLKEM768 returns ML-KEM-768.
func NewMLKEM768() *MLKEM { return newMLKEM(oid.MLKEM768, mlkem768.Scheme()) }

// NewMLKEM1024 returns ML-KEM-1024.
func NewMLKEM1024() *MLKEM { return newMLKEM(oid.MLKEM1024, mlkem1024.Scheme()) }

func newMLKEM(id string, s circlkem.Scheme) *MLKEM {
	return &MLKEM{
		info: Info{
			OID:              id,
			Name:             s.Name(),
			PublicKeySize:    s.PublicKeySize(),
			PrivateKeySize:   s.PrivateKeySize(),
			CiphertextSize:   s.CiphertextSize(),
			SharedSecretSize: s.SharedKeySize(),
		},
		scheme: s,
	}
}

// Info returns the algorithm description.
func (m *MLKEM) Info() Info { return m.info }

// GenerateKey derives a key pair from a d || z seed read from rand.
func (m *MLKEM) GenerateKey(rand io.Reader) ([]byte, []byte, error) {
	seed, err := readKeySeed(rand, m.scheme.SeedSize())
	if err != nil {
		return nil, nil, err
	}
	return m.deriveKey(seed)
}

func (m *MLKEM) deriveKey(seed []byte) ([]byte, []byte, error) {
	pub, priv := m.scheme.DeriveKeyPair(seed)

	// MarshalBinary never fails for keys from DeriveKeyPair
	pk, _ := pub.MarshalBinary()
	sk, _ := priv.MarshalBinary()
	return pk, sk, nil
}

// Encapsulate returns a fresh ciphertext and shared secret for pk.
func (m *MLKEM) Encapsulate(rand io.Reader, pk []byte) ([]byte, []byte, error) {
	if err := checkPublicKey(m.info, pk); err != nil {
		return nil, nil, err
	}

	pub, err := m.scheme.UnmarshalBinaryPublicKey(pk)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", qerrors.ErrInvalidPublicKey, err)
	}

	seed, err := readSeed(rand, m.scheme.EncapsulationSeedSize())
	if err != nil {
		return nil, nil, err
	}

	return m.scheme.EncapsulateDeterministically(pub, seed)
}

// Decapsulate recovers the shared secret from ct. A ciphertext that was not
// produced for sk yields the implicit-rejection secret, not an error.
func (m *MLKEM) Decapsulate(sk, ct []byte) ([]byte, error) {
	if err := checkCiphertext(m.info, ct); err != nil {
		return nil, err
	}
	if err := checkPrivateKey(m.info, sk); err != nil {
		return nil, err
	}

	priv, err := m.scheme.UnmarshalBinaryPrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", qerrors.ErrInvalidPrivateKey, err)
	}

	return m.scheme.Decapsulate(priv, ct)
}

// PublicKey returns the encapsulation key embedded in sk.
func (m *MLKEM) PublicKey(sk []byte) ([]byte, error) {
	if err := checkPrivateKey(m.info, sk); err != nil {
		return nil, err
	}

	priv, err := m.scheme.UnmarshalBinaryPrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", qerrors.ErrInvalidPrivateKey, err)
	}

	return priv.Public().MarshalBinary()
}
