package dsa

import (
	"encoding/asn1"
	"fmt"
	"io"

	"github.com/qubitcrypt/qubitcrypt-go/internal/composite"
	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// Composite signs with ML-DSA-65 and Ed25519 over the same message
// representative, DER(OID) || msg. Keys and signatures are composite
// encodings with the ML-DSA part first. Verification requires both
// components to verify.
type Composite struct {
	info      Info
	pq        *Scheme
	classical *Scheme
	domain    []byte
}

// NewMLDSA65Ed25519 returns the composite ML-DSA-65 + Ed25519 signature.
func NewMLDSA65Ed25519() *Composite {
	domain, _ := asn1.Marshal(oid.MustParse(oid.MLDSA65Ed25519))

	return &Composite{
		info: Info{
			OID:  oid.MLDSA65Ed25519,
			Name: "ML-DSA-65+Ed25519",
		},
		pq:        NewMLDSA65(),
		classical: NewEd25519(),
		domain:    domain,
	}
}

// Info returns the algorithm description. Sizes are left zero because the
// composite encodings are variable length.
func (c *Composite) Info() Info { return c.info }

func (c *Composite) message(msg []byte) []byte {
	m := make([]byte, 0, len(c.domain)+len(msg))
	m = append(m, c.domain...)
	return append(m, msg...)
}

// GenerateKey returns a composite key pair.
func (c *Composite) GenerateKey(rand io.Reader) ([]byte, []byte, error) {
	pkM, skM, err := c.pq.GenerateKey(rand)
	if err != nil {
		return nil, nil, err
	}
	pkE, skE, err := c.classical.GenerateKey(rand)
	if err != nil {
		return nil, nil, err
	}

	pk, err := composite.Encode(pkM, pkE)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", qerrors.ErrKeyPairGenerationFailed, err)
	}
	sk, err := composite.Encode(skM, skE)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", qerrors.ErrKeyPairGenerationFailed, err)
	}
	return pk, sk, nil
}

// Sign returns the composite signature over msg.
func (c *Composite) Sign(sk, msg []byte) ([]byte, error) {
	priv, err := composite.Decode(sk, qerrors.ErrInvalidPrivateKey)
	if err != nil {
		return nil, err
	}

	m := c.message(msg)
	sigM, err := c.pq.Sign(priv.PQ, m)
	if err != nil {
		return nil, err
	}
	sigE, err := c.classical.Sign(priv.Classical, m)
	if err != nil {
		return nil, err
	}
	return composite.Encode(sigM, sigE)
}

// Verify checks both component signatures. Both are always evaluated.
func (c *Composite) Verify(pk, msg, sig []byte) error {
	pub, err := composite.Decode(pk, qerrors.ErrInvalidPublicKey)
	if err != nil {
		return err
	}
	sigs, err := composite.Decode(sig, qerrors.ErrInvalidSignature)
	if err != nil {
		return err
	}

	m := c.message(msg)
	errM := c.pq.Verify(pub.PQ, m, sigs.PQ)
	errE := c.classical.Verify(pub.Classical, m, sigs.Classical)
	if errM != nil {
		return errM
	}
	return errE
}

// PublicKey derives the composite verification key from sk.
func (c *Composite) PublicKey(sk []byte) ([]byte, error) {
	priv, err := composite.Decode(sk, qerrors.ErrInvalidPrivateKey)
	if err != nil {
		return nil, err
	}
	pkM, err := c.pq.PublicKey(priv.PQ)
	if err != nil {
		return nil, err
	}
	pkE, err := c.classical.PublicKey(priv.Classical)
	if err != nil {
		return nil, err
	}
	return composite.Encode(pkM, pkE)
}
