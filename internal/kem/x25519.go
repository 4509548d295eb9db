package kem

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/dh/x25519"

	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// X25519 is Diffie-Hellman over Curve25519 used as a KEM. The ciphertext is
// the sender's ephemeral public key and the shared secret is the raw
// Diffie-Hellman output.
type X25519 struct{}

// NewX25519 returns the X25519 KEM.
func NewX25519() *X25519 { return &X25519{} }

// Info returns the algorithm description.
func (*X25519) Info() Info {
	return Info{
		OID:              oid.X25519,
		Name:             "X25519",
		PublicKeySize:    X25519KeySize,
		PrivateKeySize:   X25519KeySize,
		CiphertextSize:   X25519KeySize,
		SharedSecretSize: X25519KeySize,
	}
}

// GenerateKey returns a new X25519 key pair.
func (*X25519) GenerateKey(rand io.Reader) ([]byte, []byte, error) {
	seed, err := readKeySeed(rand, X25519KeySize)
	if err != nil {
		return nil, nil, err
	}

	var sk, pk x25519.Key
	copy(sk[:], seed)
	x25519.KeyGen(&pk, &sk)
	return pk[:], sk[:], nil
}

// Encapsulate runs an ephemeral Diffie-Hellman against pk. Low-order public
// keys are rejected.
func (x *X25519) Encapsulate(rand io.Reader, pk []byte) ([]byte, []byte, error) {
	if err := checkPublicKey(x.Info(), pk); err != nil {
		return nil, nil, err
	}

	seed, err := readSeed(rand, X25519KeySize)
	if err != nil {
		return nil, nil, err
	}

	var eph, ephPub, peer, ss x25519.Key
	copy(eph[:], seed)
	copy(peer[:], pk)
	x25519.KeyGen(&ephPub, &eph)
	if !x25519.Shared(&ss, &eph, &peer) {
		return nil, nil, fmt.Errorf("%w: low-order point", qerrors.ErrInvalidPublicKey)
	}
	return ephPub[:], ss[:], nil
}

// Decapsulate computes the shared secret for the ephemeral key in ct. A
// low-order ct produces the all-zero secret rather than an error.
func (x *X25519) Decapsulate(sk, ct []byte) ([]byte, error) {
	info := x.Info()
	if err := checkCiphertext(info, ct); err != nil {
		return nil, err
	}
	if err := checkPrivateKey(info, sk); err != nil {
		return nil, err
	}

	var priv, peer, ss x25519.Key
	copy(priv[:], sk)
	copy(peer[:], ct)
	x25519.Shared(&ss, &priv, &peer)
	return ss[:], nil
}

// PublicKey returns X25519(sk, 9).
func (x *X25519) PublicKey(sk []byte) ([]byte, error) {
	if err := checkPrivateKey(x.Info(), sk); err != nil {
		return nil, err
	}

	var priv, pub x25519.Key
	copy(priv[:], sk)
	x25519.KeyGen(&pub, &priv)
	return pub[:], nil
}
