package qubitcrypt

import (
	"bytes"
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"

	"github.com/qubitcrypt/qubitcrypt-go/internal/cms"
)

// CertificatePEMType is the PEM label accepted by ParseRecipientCertificate.
const CertificatePEMType = "CERTIFICATE"

// Recipient names the holder of a KEM key pair inside enveloped data. It is
// identified either by a subject key identifier or by the issuer and serial
// number of its certificate.
type Recipient struct {
	id  cms.RecipientIdentifier
	key *PublicKey
}

// NewRecipient returns a recipient identified by the SHA-1 subject key
// identifier of pub.
func NewRecipient(pub *PublicKey) (*Recipient, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: nil key", ErrInvalidPublicKey)
	}
	return NewRecipientWithSubjectKeyID(pub, pub.SubjectKeyID())
}

// NewRecipientWithSubjectKeyID returns a recipient identified by ski.
func NewRecipientWithSubjectKeyID(pub *PublicKey, ski []byte) (*Recipient, error) {
	if err := checkRecipientKey(pub); err != nil {
		return nil, err
	}
	if len(ski) == 0 {
		return nil, fmt.Errorf("%w: empty subject key identifier", ErrInvalidContent)
	}
	return &Recipient{
		id:  cms.RecipientIdentifier{SubjectKeyID: bytes.Clone(ski)},
		key: pub,
	}, nil
}

// NewRecipientWithIssuerSerial returns a recipient identified by a DER
// issuer Name and a certificate serial number.
func NewRecipientWithIssuerSerial(pub *PublicKey, issuer []byte, serial *big.Int) (*Recipient, error) {
	if err := checkRecipientKey(pub); err != nil {
		return nil, err
	}
	var name asn1.RawValue
	rest, err := asn1.Unmarshal(issuer, &name)
	if err != nil || len(rest) > 0 || name.Tag != asn1.TagSequence {
		return nil, fmt.Errorf("%w: issuer is not a DER Name", ErrInvalidContent)
	}
	if serial == nil {
		return nil, fmt.Errorf("%w: missing serial number", ErrInvalidContent)
	}
	return &Recipient{
		id: cms.RecipientIdentifier{IssuerAndSerial: &cms.IssuerAndSerialNumber{
			Issuer:       asn1.RawValue{FullBytes: bytes.Clone(issuer)},
			SerialNumber: new(big.Int).Set(serial),
		}},
		key: pub,
	}, nil
}

// RecipientFromCertificate builds a recipient from a certificate whose
// SubjectPublicKeyInfo holds a KEM key. The subject key identifier extension
// is used when present, otherwise the issuer and serial number.
func RecipientFromCertificate(cert *x509.Certificate) (*Recipient, error) {
	if cert == nil {
		return nil, fmt.Errorf("%w: nil certificate", ErrInvalidPublicKey)
	}
	pub, err := ParsePublicKey(cert.RawSubjectPublicKeyInfo)
	if err != nil {
		return nil, err
	}
	if len(cert.SubjectKeyId) > 0 {
		return NewRecipientWithSubjectKeyID(pub, cert.SubjectKeyId)
	}
	return NewRecipientWithIssuerSerial(pub, cert.RawIssuer, cert.SerialNumber)
}

// ParseRecipientCertificate parses a DER or PEM certificate and calls
// RecipientFromCertificate.
func ParseRecipientCertificate(data []byte) (*Recipient, error) {
	der := data
	if block, _ := pem.Decode(data); block != nil {
		if block.Type != CertificatePEMType {
			return nil, fmt.Errorf("%w: unexpected PEM type %q", ErrInvalidContent, block.Type)
		}
		der = block.Bytes
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return RecipientFromCertificate(cert)
}

func checkRecipientKey(pub *PublicKey) error {
	if pub == nil {
		return fmt.Errorf("%w: nil key", ErrInvalidPublicKey)
	}
	if !pub.IsKEM() {
		return fmt.Errorf("%w: recipient key must belong to a KEM", ErrUnsupportedOperation)
	}
	return nil
}

// PublicKey returns the recipient's KEM public key.
func (r *Recipient) PublicKey() *PublicKey { return r.key }

// SubjectKeyID returns the subject key identifier, or nil when the recipient
// is identified by issuer and serial number.
func (r *Recipient) SubjectKeyID() []byte { return bytes.Clone(r.id.SubjectKeyID) }

// SerialNumber returns the certificate serial number, or nil when the
// recipient is identified by subject key identifier.
func (r *Recipient) SerialNumber() *big.Int {
	if r.id.IssuerAndSerial == nil {
		return nil
	}
	return new(big.Int).Set(r.id.IssuerAndSerial.SerialNumber)
}
