package qubitcrypt

import (
	"bytes"
	"crypto/sha1"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/registry"
)

// PEM block types for keys.
const (
	PublicKeyPEMType  = "PUBLIC KEY"
	PrivateKeyPEMType = "PRIVATE KEY"
)

// subjectPublicKeyInfo is the RFC 5280 public key container.
type subjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

// oneAsymmetricKey is the RFC 5958 private key container. The private key
// octets are the raw algorithm key.
type oneAsymmetricKey struct {
	Version    int
	Algorithm  pkix.AlgorithmIdentifier
	PrivateKey []byte
	Attributes asn1.RawValue  `asn1:"optional,tag:0"`
	PublicKey  asn1.BitString `asn1:"optional,tag:1"`
}

// keySizes returns the fixed key sizes for id. Zero means variable length.
func keySizes(id string) (pub, priv int, err error) {
	if registry.IsKEM(id) {
		k, err := registry.KEM(id)
		if err != nil {
			return 0, 0, err
		}
		info := k.Info()
		return info.PublicKeySize, info.PrivateKeySize, nil
	}
	d, err := registry.DSA(id)
	if err != nil {
		return 0, 0, err
	}
	info := d.Info()
	return info.PublicKeySize, info.PrivateKeySize, nil
}

// PublicKey is a KEM or signature public key tagged with its algorithm.
type PublicKey struct {
	oid string
	key []byte
}

// NewPublicKey wraps raw key bytes for the algorithm id.
func NewPublicKey(id string, key []byte) (*PublicKey, error) {
	size, _, err := keySizes(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, wrapError(err))
	}
	if len(key) == 0 || (size != 0 && len(key) != size) {
		return nil, fmt.Errorf("%w: got %d bytes for %s", ErrInvalidPublicKey, len(key), registry.Name(id))
	}
	return &PublicKey{oid: id, key: bytes.Clone(key)}, nil
}

// OID returns the dotted algorithm identifier.
func (k *PublicKey) OID() string { return k.oid }

// Bytes returns a copy of the raw key.
func (k *PublicKey) Bytes() []byte { return bytes.Clone(k.key) }

// IsComposite reports whether the key uses the composite encoding.
func (k *PublicKey) IsComposite() bool { return registry.IsComposite(k.oid) }

// IsKEM reports whether the key belongs to a KEM.
func (k *PublicKey) IsKEM() bool { return registry.IsKEM(k.oid) }

// Equal reports whether both keys have the same algorithm and bytes.
func (k *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && k.oid == other.oid && bytes.Equal(k.key, other.key)
}

// SubjectKeyID returns the SHA-1 hash of the key bits (RFC 5280 Section
// 4.2.1.2, method 1).
func (k *PublicKey) SubjectKeyID() []byte {
	sum := sha1.Sum(k.key)
	return sum[:]
}

// MarshalDER encodes the key as a SubjectPublicKeyInfo.
func (k *PublicKey) MarshalDER() ([]byte, error) {
	alg, err := oid.Parse(k.oid)
	if err != nil {
		return nil, err
	}
	return asn1.Marshal(subjectPublicKeyInfo{
		Algorithm: pkix.AlgorithmIdentifier{Algorithm: alg},
		PublicKey: asn1.BitString{Bytes: k.key, BitLength: 8 * len(k.key)},
	})
}

// MarshalPEM encodes the key as a PUBLIC KEY PEM block.
func (k *PublicKey) MarshalPEM() ([]byte, error) {
	der, err := k.MarshalDER()
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: PublicKeyPEMType, Bytes: der}), nil
}

// ParsePublicKey decodes a SubjectPublicKeyInfo given as DER or as a PUBLIC
// KEY PEM block.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	der, err := decodePEM(data, PublicKeyPEMType, ErrInvalidPublicKey)
	if err != nil {
		return nil, err
	}

	var spki subjectPublicKeyInfo
	rest, err := asn1.Unmarshal(der, &spki)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidPublicKey)
	}
	if spki.PublicKey.BitLength%8 != 0 {
		return nil, fmt.Errorf("%w: key is not byte aligned", ErrInvalidPublicKey)
	}
	return NewPublicKey(spki.Algorithm.Algorithm.String(), spki.PublicKey.Bytes)
}

// Encapsulate produces a ciphertext and shared secret for the key. Signature
// keys return ErrUnsupportedOperation.
func (k *PublicKey) Encapsulate(opts ...Option) (ct, ss []byte, err error) {
	if !registry.IsKEM(k.oid) {
		return nil, nil, fmt.Errorf("%w: %s is not a KEM", ErrUnsupportedOperation, registry.Name(k.oid))
	}
	kem, err := registry.KEM(k.oid)
	if err != nil {
		return nil, nil, wrapError(err)
	}
	cfg := newConfig(opts)
	return kem.Encapsulate(cfg.rand, k.key)
}

// Verify checks sig over msg. KEM keys return ErrUnsupportedOperation.
func (k *PublicKey) Verify(msg, sig []byte) error {
	if !registry.IsDSA(k.oid) {
		return fmt.Errorf("%w: %s cannot verify", ErrUnsupportedOperation, registry.Name(k.oid))
	}
	d, err := registry.DSA(k.oid)
	if err != nil {
		return wrapError(err)
	}
	if err := d.Verify(k.key, msg, sig); err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			return &SignatureVerificationError{OID: k.oid}
		}
		return err
	}
	return nil
}

// PrivateKey is a KEM or signature private key tagged with its algorithm.
type PrivateKey struct {
	oid string
	key []byte
}

// NewPrivateKey wraps raw key bytes for the algorithm id.
func NewPrivateKey(id string, key []byte) (*PrivateKey, error) {
	_, size, err := keySizes(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, wrapError(err))
	}
	if len(key) == 0 || (size != 0 && len(key) != size) {
		return nil, fmt.Errorf("%w: got %d bytes for %s", ErrInvalidPrivateKey, len(key), registry.Name(id))
	}
	return &PrivateKey{oid: id, key: bytes.Clone(key)}, nil
}

// GenerateKeyPair creates a key pair for the KEM or signature algorithm id.
func GenerateKeyPair(id string, opts ...Option) (*PublicKey, *PrivateKey, error) {
	cfg := newConfig(opts)

	var pk, sk []byte
	var err error
	switch {
	case registry.IsKEM(id):
		kem, kerr := registry.KEM(id)
		if kerr != nil {
			return nil, nil, wrapError(kerr)
		}
		pk, sk, err = kem.GenerateKey(cfg.rand)
	case registry.IsDSA(id):
		d, derr := registry.DSA(id)
		if derr != nil {
			return nil, nil, wrapError(derr)
		}
		pk, sk, err = d.GenerateKey(cfg.rand)
	default:
		_, derr := registry.DSA(id)
		return nil, nil, wrapError(derr)
	}
	if err != nil {
		return nil, nil, err
	}
	return &PublicKey{oid: id, key: pk}, &PrivateKey{oid: id, key: sk}, nil
}

// OID returns the dotted algorithm identifier.
func (k *PrivateKey) OID() string { return k.oid }

// Bytes returns a copy of the raw key.
func (k *PrivateKey) Bytes() []byte { return bytes.Clone(k.key) }

// IsComposite reports whether the key uses the composite encoding.
func (k *PrivateKey) IsComposite() bool { return registry.IsComposite(k.oid) }

// IsKEM reports whether the key belongs to a KEM.
func (k *PrivateKey) IsKEM() bool { return registry.IsKEM(k.oid) }

// PublicKey derives the matching public key.
func (k *PrivateKey) PublicKey() (*PublicKey, error) {
	var pk []byte
	var err error
	if registry.IsKEM(k.oid) {
		kem, kerr := registry.KEM(k.oid)
		if kerr != nil {
			return nil, wrapError(kerr)
		}
		pk, err = kem.PublicKey(k.key)
	} else {
		d, derr := registry.DSA(k.oid)
		if derr != nil {
			return nil, wrapError(derr)
		}
		pk, err = d.PublicKey(k.key)
	}
	if err != nil {
		return nil, err
	}
	return &PublicKey{oid: k.oid, key: pk}, nil
}

// MarshalDER encodes the key as PKCS#8 (OneAsymmetricKey version 0).
func (k *PrivateKey) MarshalDER() ([]byte, error) {
	alg, err := oid.Parse(k.oid)
	if err != nil {
		return nil, err
	}
	return asn1.Marshal(oneAsymmetricKey{
		Algorithm:  pkix.AlgorithmIdentifier{Algorithm: alg},
		PrivateKey: k.key,
	})
}

// MarshalPEM encodes the key as a PRIVATE KEY PEM block.
func (k *PrivateKey) MarshalPEM() ([]byte, error) {
	der, err := k.MarshalDER()
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: PrivateKeyPEMType, Bytes: der}), nil
}

// ParsePrivateKey decodes a PKCS#8 key given as DER or as a PRIVATE KEY PEM
// block.
func ParsePrivateKey(data []byte) (*PrivateKey, error) {
	der, err := decodePEM(data, PrivateKeyPEMType, ErrInvalidPrivateKey)
	if err != nil {
		return nil, err
	}

	var oak oneAsymmetricKey
	rest, err := asn1.Unmarshal(der, &oak)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidPrivateKey)
	}
	if oak.Version != 0 && oak.Version != 1 {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidPrivateKey, oak.Version)
	}
	return NewPrivateKey(oak.Algorithm.Algorithm.String(), oak.PrivateKey)
}

// Decapsulate recovers the shared secret from ct. Signature keys return
// ErrUnsupportedOperation.
func (k *PrivateKey) Decapsulate(ct []byte) ([]byte, error) {
	if !registry.IsKEM(k.oid) {
		return nil, fmt.Errorf("%w: %s is not a KEM", ErrUnsupportedOperation, registry.Name(k.oid))
	}
	kem, err := registry.KEM(k.oid)
	if err != nil {
		return nil, wrapError(err)
	}
	return kem.Decapsulate(k.key, ct)
}

// Sign signs msg. KEM keys return ErrUnsupportedOperation.
func (k *PrivateKey) Sign(msg []byte) ([]byte, error) {
	if !registry.IsDSA(k.oid) {
		return nil, fmt.Errorf("%w: %s cannot sign", ErrUnsupportedOperation, registry.Name(k.oid))
	}
	d, err := registry.DSA(k.oid)
	if err != nil {
		return nil, wrapError(err)
	}
	return d.Sign(k.key, msg)
}

// decodePEM returns the DER payload of data. Input that is not PEM is
// returned unchanged; a PEM block with another label is rejected.
func decodePEM(data []byte, label string, kind error) ([]byte, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return data, nil
	}
	if block.Type != label {
		return nil, fmt.Errorf("%w: unexpected PEM type %q", kind, block.Type)
	}
	return block.Bytes, nil
}
