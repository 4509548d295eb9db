package kem

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/dh/x25519"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"golang.org/x/crypto/sha3"

	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// XWing is the X-Wing hybrid KEM built from ML-KEM-768 and X25519.
//
// The private key is a 32 byte seed. SHAKE128 expands it into the ML-KEM-768
// seed (d || z) and the X25519 private key. The shared secret is
//
//	SHA3-256(label || ss_M || ss_X || ct_X || pk_X)
type XWing struct {
	x X25519
}

// NewXWing returns the X-Wing KEM.
func NewXWing() *XWing { return &XWing{} }

// Info returns the algorithm description.
func (*XWing) Info() Info {
	return Info{
		OID:              oid.XWing,
		Name:             "X-Wing",
		PublicKeySize:    XWingPublicKeySize,
		PrivateKeySize:   XWingPrivateKeySize,
		CiphertextSize:   XWingCiphertextSize,
		SharedSecretSize: XWingSharedSecretSize,
	}
}

// xwingKey is an expanded X-Wing private key.
type xwingKey struct {
	skM *mlkem768.PrivateKey
	pkM *mlkem768.PublicKey
	skX x25519.Key
	pkX x25519.Key
}

// expandXWing derives both component key pairs from seed. seed must be
// XWingPrivateKeySize bytes.
func expandXWing(seed []byte) *xwingKey {
	var expanded [xwingExpandedSize]byte
	h := sha3.NewShake128()
	h.Write(seed)
	h.Read(expanded[:])

	k := &xwingKey{}
	k.pkM, k.skM = mlkem768.NewKeyFromSeed(expanded[:mlkem768.KeySeedSize])
	copy(k.skX[:], expanded[mlkem768.KeySeedSize:])
	x25519.KeyGen(&k.pkX, &k.skX)
	return k
}

func (k *xwingKey) publicKey() []byte {
	pk := make([]byte, XWingPublicKeySize)
	k.pkM.Pack(pk[:mlkem768.PublicKeySize])
	copy(pk[mlkem768.PublicKeySize:], k.pkX[:])
	return pk
}

func xwingCombine(ssM, ssX, ctX, pkX []byte) []byte {
	h := sha3.New256()
	h.Write(xwingLabel)
	h.Write(ssM)
	h.Write(ssX)
	h.Write(ctX)
	h.Write(pkX)
	return h.Sum(nil)
}

// GenerateKey draws a 32 byte seed from rand and returns (pk_M || pk_X, seed).
func (w *XWing) GenerateKey(rand io.Reader) ([]byte, []byte, error) {
	sk, err := readKeySeed(rand, XWingPrivateKeySize)
	if err != nil {
		return nil, nil, err
	}
	return expandXWing(sk).publicKey(), sk, nil
}

// Encapsulate returns ct_M || ct_X and the combined shared secret. The public
// key length is checked before either component KEM runs.
func (w *XWing) Encapsulate(rand io.Reader, pk []byte) ([]byte, []byte, error) {
	if err := checkPublicKey(w.Info(), pk); err != nil {
		return nil, nil, err
	}
	pkM, pkX := pk[:mlkem768.PublicKeySize], pk[mlkem768.PublicKeySize:]

	var pub mlkem768.PublicKey
	if err := pub.Unpack(pkM); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", qerrors.ErrInvalidPublicKey, err)
	}

	ctX, ssX, err := w.x.Encapsulate(rand, pkX)
	if err != nil {
		return nil, nil, err
	}

	seed, err := readSeed(rand, mlkem768.EncapsulationSeedSize)
	if err != nil {
		return nil, nil, err
	}
	ct := make([]byte, XWingCiphertextSize)
	ssM := make([]byte, mlkem768.SharedKeySize)
	pub.EncapsulateTo(ct[:mlkem768.CiphertextSize], ssM, seed)
	copy(ct[mlkem768.CiphertextSize:], ctX)

	return ct, xwingCombine(ssM, ssX, ctX, pkX), nil
}

// Decapsulate recovers the shared secret from ct. Both component
// decapsulations always run: ML-KEM rejects implicitly and a low-order X25519
// share still feeds the combiner.
func (w *XWing) Decapsulate(sk, ct []byte) ([]byte, error) {
	info := w.Info()
	if err := checkCiphertext(info, ct); err != nil {
		return nil, err
	}
	if err := checkPrivateKey(info, sk); err != nil {
		return nil, err
	}

	k := expandXWing(sk)
	ctM, ctX := ct[:mlkem768.CiphertextSize], ct[mlkem768.CiphertextSize:]

	ssM := make([]byte, mlkem768.SharedKeySize)
	k.skM.DecapsulateTo(ssM, ctM)

	var peer, ssX x25519.Key
	copy(peer[:], ctX)
	x25519.Shared(&ssX, &k.skX, &peer)

	return xwingCombine(ssM, ssX[:], ctX, k.pkX[:]), nil
}

// PublicKey re-derives pk_M || pk_X from the seed.
func (w *XWing) PublicKey(sk []byte) ([]byte, error) {
	if err := checkPrivateKey(w.Info(), sk); err != nil {
		return nil, err
	}
	return expandXWing(sk).publicKey(), nil
}
