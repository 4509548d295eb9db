package kem

import (
	"encoding/asn1"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/qubitcrypt/qubitcrypt-go/internal/composite"
	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// Composite pairs ML-KEM-768 with X25519. Public keys, private keys and
// ciphertexts are composite encodings with the ML-KEM part first; the shared
// secret is
//
//	SHA3-256(ss_M || ss_X || ct_X || pk_X || DER(OID))
type Composite struct {
	info   Info
	pq     *MLKEM
	x      X25519
	domain []byte
}

// NewMLKEM768X25519 returns the composite ML-KEM-768 + X25519 KEM.
func NewMLKEM768X25519() *Composite {
	// The identifier is a package constant, so marshaling cannot fail.
	domain, _ := asn1.Marshal(oid.MustParse(oid.MLKEM768X25519))

	pq := NewMLKEM768()
	pqInfo := pq.Info()
	return &Composite{
		info: Info{
			OID:              oid.MLKEM768X25519,
			Name:             "ML-KEM-768+X25519",
			PublicKeySize:    compositeSize(pqInfo.PublicKeySize, X25519KeySize),
			PrivateKeySize:   compositeSize(pqInfo.PrivateKeySize, X25519KeySize),
			CiphertextSize:   compositeSize(pqInfo.CiphertextSize, X25519KeySize),
			SharedSecretSize: 32,
		},
		pq:     pq,
		domain: domain,
	}
}

// compositeSize returns the DER length of a composite value with components
// of the given sizes.
func compositeSize(pq, classical int) int {
	bitString := func(n int) int { return derHeaderSize(n+1) + n + 1 }
	body := bitString(pq) + bitString(classical)
	return derHeaderSize(body) + body
}

func derHeaderSize(n int) int {
	switch {
	case n < 0x80:
		return 2
	case n <= 0xFF:
		return 3
	case n <= 0xFFFF:
		return 4
	default:
		return 5
	}
}

// Info returns the algorithm description.
func (c *Composite) Info() Info { return c.info }

// GenerateKey returns a composite key pair.
func (c *Composite) GenerateKey(rand io.Reader) ([]byte, []byte, error) {
	pkM, skM, err := c.pq.GenerateKey(rand)
	if err != nil {
		return nil, nil, err
	}
	pkX, skX, err := c.x.GenerateKey(rand)
	if err != nil {
		return nil, nil, err
	}

	pk, err := composite.Encode(pkM, pkX)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", qerrors.ErrKeyPairGenerationFailed, err)
	}
	sk, err := composite.Encode(skM, skX)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", qerrors.ErrKeyPairGenerationFailed, err)
	}
	return pk, sk, nil
}

// Encapsulate runs both component KEMs against the decoded public key.
func (c *Composite) Encapsulate(rand io.Reader, pk []byte) ([]byte, []byte, error) {
	if err := checkPublicKey(c.info, pk); err != nil {
		return nil, nil, err
	}
	pub, err := composite.Decode(pk, qerrors.ErrInvalidPublicKey)
	if err != nil {
		return nil, nil, err
	}

	ctM, ssM, err := c.pq.Encapsulate(rand, pub.PQ)
	if err != nil {
		return nil, nil, err
	}
	ctX, ssX, err := c.x.Encapsulate(rand, pub.Classical)
	if err != nil {
		return nil, nil, err
	}

	ct, err := composite.Encode(ctM, ctX)
	if err != nil {
		return nil, nil, err
	}
	return ct, c.combine(ssM, ssX, ctX, pub.Classical), nil
}

// Decapsulate recovers the shared secret. Both components always run.
func (c *Composite) Decapsulate(sk, ct []byte) ([]byte, error) {
	if err := checkCiphertext(c.info, ct); err != nil {
		return nil, err
	}
	if err := checkPrivateKey(c.info, sk); err != nil {
		return nil, err
	}

	cts, err := composite.Decode(ct, qerrors.ErrInvalidCiphertext)
	if err != nil {
		return nil, err
	}
	priv, err := composite.Decode(sk, qerrors.ErrInvalidPrivateKey)
	if err != nil {
		return nil, err
	}

	ssM, err := c.pq.Decapsulate(priv.PQ, cts.PQ)
	if err != nil {
		return nil, err
	}
	ssX, err := c.x.Decapsulate(priv.Classical, cts.Classical)
	if err != nil {
		return nil, err
	}
	pkX, err := c.x.PublicKey(priv.Classical)
	if err != nil {
		return nil, err
	}

	return c.combine(ssM, ssX, cts.Classical, pkX), nil
}

// PublicKey derives the composite public key from sk.
func (c *Composite) PublicKey(sk []byte) ([]byte, error) {
	if err := checkPrivateKey(c.info, sk); err != nil {
		return nil, err
	}
	priv, err := composite.Decode(sk, qerrors.ErrInvalidPrivateKey)
	if err != nil {
		return nil, err
	}

	pkM, err := c.pq.PublicKey(priv.PQ)
	if err != nil {
		return nil, err
	}
	pkX, err := c.x.PublicKey(priv.Classical)
	if err != nil {
		return nil, err
	}
	return composite.Encode(pkM, pkX)
}

func (c *Composite) combine(ssM, ssX, ctX, pkX []byte) []byte {
	h := sha3.New256()
	h.Write(ssM)
	h.Write(ssX)
	h.Write(ctX)
	h.Write(pkX)
	h.Write(c.domain)
	return h.Sum(nil)
}
