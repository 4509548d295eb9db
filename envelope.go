package qubitcrypt

import (
	"bytes"
	"encoding/asn1"
	"fmt"

	"github.com/qubitcrypt/qubitcrypt-go/internal/cms"
	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
)

// EnvelopedDataPEMType is the PEM label written by EncodePEM.
const EnvelopedDataPEMType = cms.PEMType

// Attribute is an unprotected CMS attribute. Values are DER encoded.
type Attribute struct {
	Type   string
	Values [][]byte
}

// KEMRecipientInfo describes one KEM recipient of a parsed message.
type KEMRecipientInfo struct {
	// SubjectKeyID is set when the recipient is named by key identifier.
	SubjectKeyID []byte
	// SerialNumber is set when the recipient is named by issuer and serial.
	SerialNumber []byte

	KEM       string
	KDF       KeyDerivationAlgorithm
	Wrap      KeyWrapAlgorithm
	KEKLength int
	UKM       []byte
}

// EnvelopedDataBuilder creates an EnvelopedData message for one or more KEM
// recipients. Add recipients, then the content, then optional attributes,
// then call Build.
type EnvelopedDataBuilder struct {
	b *cms.Builder
}

// NewEnvelopedDataBuilder returns a builder that encrypts content with alg.
func NewEnvelopedDataBuilder(alg ContentEncryptionAlgorithm, opts ...Option) (*EnvelopedDataBuilder, error) {
	cfg := newConfig(opts)
	b, err := cms.NewBuilder(string(alg), cfg.rand)
	if err != nil {
		return nil, wrapError(err)
	}
	return &EnvelopedDataBuilder{b: b}, nil
}

// KEMRecipient adds a recipient. The key-encryption key is derived with kdf
// and the content-encryption key is wrapped with wrap. ukm is optional user
// keying material mixed into the derivation.
func (b *EnvelopedDataBuilder) KEMRecipient(r *Recipient, kdf KeyDerivationAlgorithm, wrap KeyWrapAlgorithm, ukm []byte) error {
	if r == nil {
		return fmt.Errorf("%w: nil recipient", ErrInvalidPublicKey)
	}
	err := b.b.AddKEMRecipient(r.id, r.key.oid, r.key.key, string(kdf), string(wrap), ukm)
	return wrapError(err)
}

// Content sets the plaintext. It may be called once.
func (b *EnvelopedDataBuilder) Content(data []byte) error {
	return wrapError(b.b.Content(data))
}

// UnprotectedAttribute adds an attribute of type attrType (a dotted OID) with
// the given DER encoded values.
func (b *EnvelopedDataBuilder) UnprotectedAttribute(attrType string, values ...[]byte) error {
	id, err := oid.Parse(attrType)
	if err != nil {
		return wrapError(err)
	}
	attr := cms.Attribute{Type: id}
	for _, v := range values {
		var raw asn1.RawValue
		rest, err := asn1.Unmarshal(v, &raw)
		if err != nil || len(rest) > 0 {
			return fmt.Errorf("%w: attribute value is not a single DER element", ErrInvalidContent)
		}
		attr.Values = append(attr.Values, raw)
	}
	return wrapError(b.b.UnprotectedAttribute(attr))
}

// Build returns the DER encoded ContentInfo.
func (b *EnvelopedDataBuilder) Build() ([]byte, error) {
	der, err := b.b.Build()
	return der, wrapError(err)
}

// EncodePEM wraps DER enveloped data in a CMS PEM block.
func EncodePEM(der []byte) []byte {
	return cms.EncodePEM(der)
}

// EnvelopedData is a parsed, still encrypted, message.
type EnvelopedData struct {
	env *cms.Envelope
}

// ParseEnvelopedData parses DER or PEM enveloped data.
func ParseEnvelopedData(data []byte) (*EnvelopedData, error) {
	env, err := cms.Parse(data)
	if err != nil {
		return nil, wrapError(err)
	}
	return &EnvelopedData{env: env}, nil
}

// Version returns the CMS version.
func (e *EnvelopedData) Version() int { return e.env.Version() }

// OriginatorInfo returns the DER originator info, or nil.
func (e *EnvelopedData) OriginatorInfo() []byte { return e.env.OriginatorInfo() }

// RecipientInfos returns each RecipientInfo as DER.
func (e *EnvelopedData) RecipientInfos() [][]byte { return e.env.RecipientInfos() }

// KEMRecipients describes the KEM recipients of the message.
func (e *EnvelopedData) KEMRecipients() []KEMRecipientInfo {
	ris := e.env.KEMRecipients()
	out := make([]KEMRecipientInfo, 0, len(ris))
	for _, ri := range ris {
		info := KEMRecipientInfo{
			SubjectKeyID: bytes.Clone(ri.RID.SubjectKeyID),
			KEM:          ri.KEM.Algorithm.String(),
			KDF:          KeyDerivationAlgorithm(ri.KDF.Algorithm.String()),
			Wrap:         KeyWrapAlgorithm(ri.Wrap.Algorithm.String()),
			KEKLength:    ri.KEKLength,
			UKM:          bytes.Clone(ri.UKM),
		}
		if ri.RID.IssuerAndSerial != nil {
			info.SerialNumber = ri.RID.IssuerAndSerial.SerialNumber.Bytes()
		}
		out = append(out, info)
	}
	return out
}

// UnprotectedAttributes returns the unprotected attributes, if any.
func (e *EnvelopedData) UnprotectedAttributes() []Attribute {
	attrs := e.env.UnprotectedAttributes()
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		attr := Attribute{Type: a.Type.String()}
		for _, v := range a.Values {
			attr.Values = append(attr.Values, bytes.Clone(v.FullBytes))
		}
		out = append(out, attr)
	}
	return out
}

// ContentEncryptionAlgorithm returns the content cipher identifier.
func (e *EnvelopedData) ContentEncryptionAlgorithm() ContentEncryptionAlgorithm {
	return ContentEncryptionAlgorithm(e.env.ContentEncryptionAlgorithm())
}

// Decrypt recovers the content for r using its private key. A message with
// no recipient info for r returns ErrInvalidContent; any cryptographic
// failure returns a DecryptionError.
func (e *EnvelopedData) Decrypt(r *Recipient, key *PrivateKey) (*EnvelopedDataContent, error) {
	if r == nil || key == nil {
		return nil, fmt.Errorf("%w: recipient and private key are required", ErrInvalidPrivateKey)
	}
	if !key.IsKEM() {
		return nil, fmt.Errorf("%w: decryption needs a KEM private key", ErrUnsupportedOperation)
	}
	content, err := e.env.Decrypt(r.id, key.oid, key.key)
	if err != nil {
		return nil, wrapError(err)
	}
	return &EnvelopedDataContent{EnvelopedData: e, content: content}, nil
}

// EnvelopedDataContent is a decrypted message.
type EnvelopedDataContent struct {
	*EnvelopedData
	content []byte
}

// Content returns the decrypted plaintext.
func (c *EnvelopedDataContent) Content() []byte { return c.content }

// DecryptEnvelopedData parses data and decrypts it for r.
func DecryptEnvelopedData(data []byte, r *Recipient, key *PrivateKey) (*EnvelopedDataContent, error) {
	ed, err := ParseEnvelopedData(data)
	if err != nil {
		return nil, err
	}
	return ed.Decrypt(r, key)
}
