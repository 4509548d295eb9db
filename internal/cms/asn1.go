package cms

import (
	"bytes"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"math/big"

	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// CMS versions used by EnvelopedData (RFC 5652 Section 6.1).
const (
	Version0 = 0
	Version2 = 2
	Version3 = 3
	Version4 = 4
)

// kemriVersion is the only version RFC 9629 defines for KEMRecipientInfo.
const kemriVersion = 0

// ori is the RecipientInfo CHOICE tag for OtherRecipientInfo.
const oriTag = 4

// contentInfo is the outer CMS wrapper.
//
//	ContentInfo ::= SEQUENCE {
//	  contentType ContentType,
//	  content [0] EXPLICIT ANY DEFINED BY contentType }
type contentInfo struct {
	ContentType asn1.ObjectIdentifier
	Content     asn1.RawValue
}

// EnvelopedData mirrors the RFC 5652 structure. RecipientInfos keeps each
// CHOICE as raw DER so that unknown recipient kinds survive a parse.
type EnvelopedData struct {
	Version              int
	OriginatorInfo       asn1.RawValue   `asn1:"optional,tag:0"`
	RecipientInfos       []asn1.RawValue `asn1:"set"`
	EncryptedContentInfo EncryptedContentInfo
	UnprotectedAttrs     []Attribute `asn1:"optional,set,tag:1"`
}

// EncryptedContentInfo carries the content-encryption algorithm and the
// ciphertext.
type EncryptedContentInfo struct {
	ContentType                asn1.ObjectIdentifier
	ContentEncryptionAlgorithm pkix.AlgorithmIdentifier
	EncryptedContent           []byte `asn1:"optional,tag:0"`
}

// Attribute is a CMS attribute. Values holds each AttributeValue as DER.
type Attribute struct {
	Type   asn1.ObjectIdentifier
	Values []asn1.RawValue `asn1:"set"`
}

// IssuerAndSerialNumber identifies a certificate by its issuer name and
// serial number. Issuer holds the DER Name.
type IssuerAndSerialNumber struct {
	Issuer       asn1.RawValue
	SerialNumber *big.Int
}

// RecipientIdentifier is the rid CHOICE. Exactly one field is set.
type RecipientIdentifier struct {
	IssuerAndSerial *IssuerAndSerialNumber
	SubjectKeyID    []byte
}

// Equal reports whether two identifiers name the same recipient.
func (rid RecipientIdentifier) Equal(other RecipientIdentifier) bool {
	switch {
	case rid.IssuerAndSerial != nil && other.IssuerAndSerial != nil:
		a, b := rid.IssuerAndSerial, other.IssuerAndSerial
		if a.SerialNumber == nil || b.SerialNumber == nil {
			return false
		}
		return bytes.Equal(a.Issuer.FullBytes, b.Issuer.FullBytes) && a.SerialNumber.Cmp(b.SerialNumber) == 0
	case rid.IssuerAndSerial == nil && other.IssuerAndSerial == nil:
		return len(rid.SubjectKeyID) > 0 && bytes.Equal(rid.SubjectKeyID, other.SubjectKeyID)
	}
	return false
}

// Marshal encodes the present alternative of the CHOICE.
func (rid RecipientIdentifier) Marshal() ([]byte, error) {
	if rid.IssuerAndSerial != nil {
		if len(rid.IssuerAndSerial.Issuer.FullBytes) == 0 || rid.IssuerAndSerial.SerialNumber == nil {
			return nil, fmt.Errorf("%w: incomplete issuer and serial number", qerrors.ErrInvalidContent)
		}
		return asn1.Marshal(*rid.IssuerAndSerial)
	}
	if len(rid.SubjectKeyID) > 0 {
		return asn1.Marshal(asn1.RawValue{
			Class: asn1.ClassContextSpecific,
			Tag:   0,
			Bytes: rid.SubjectKeyID,
		})
	}
	return nil, fmt.Errorf("%w: empty recipient identifier", qerrors.ErrInvalidContent)
}

func parseRecipientIdentifier(data []byte) (RecipientIdentifier, []byte, error) {
	var raw asn1.RawValue
	rest, err := asn1.Unmarshal(data, &raw)
	if err != nil {
		return RecipientIdentifier{}, nil, err
	}

	switch {
	case raw.Class == asn1.ClassContextSpecific && raw.Tag == 0 && !raw.IsCompound:
		if len(raw.Bytes) == 0 {
			return RecipientIdentifier{}, nil, fmt.Errorf("empty subject key identifier")
		}
		return RecipientIdentifier{SubjectKeyID: raw.Bytes}, rest, nil
	case raw.Class == asn1.ClassUniversal && raw.Tag == asn1.TagSequence:
		var ias IssuerAndSerialNumber
		trailing, err := asn1.Unmarshal(raw.FullBytes, &ias)
		if err != nil {
			return RecipientIdentifier{}, nil, err
		}
		if len(trailing) > 0 {
			return RecipientIdentifier{}, nil, fmt.Errorf("trailing data after issuer and serial number")
		}
		return RecipientIdentifier{IssuerAndSerial: &ias}, rest, nil
	}
	return RecipientIdentifier{}, nil, fmt.Errorf("unexpected recipient identifier tag %d class %d", raw.Tag, raw.Class)
}

// KEMRecipientInfo is the RFC 9629 recipient structure.
//
//	KEMRecipientInfo ::= SEQUENCE {
//	  version CMSVersion,  -- always set to 0
//	  rid RecipientIdentifier,
//	  kem KEMAlgorithmIdentifier,
//	  kemct OCTET STRING,
//	  kdf KeyDerivationAlgorithmIdentifier,
//	  kekLength INTEGER (1..65535),
//	  ukm [0] EXPLICIT UserKeyingMaterial OPTIONAL,
//	  wrap KeyEncryptionAlgorithmIdentifier,
//	  encryptedKey EncryptedKey }
type KEMRecipientInfo struct {
	Version      int
	RID          RecipientIdentifier
	KEM          pkix.AlgorithmIdentifier
	KEMCT        []byte
	KDF          pkix.AlgorithmIdentifier
	KEKLength    int
	UKM          []byte
	Wrap         pkix.AlgorithmIdentifier
	EncryptedKey []byte
}

// Marshal encodes ri as a RecipientInfo: ori [4] { id-ori-kem, KEMRecipientInfo }.
func (ri *KEMRecipientInfo) Marshal() ([]byte, error) {
	rid, err := ri.RID.Marshal()
	if err != nil {
		return nil, err
	}

	parts := [][]byte{}
	add := func(v any) error {
		b, err := asn1.Marshal(v)
		if err != nil {
			return err
		}
		parts = append(parts, b)
		return nil
	}

	if err := add(ri.Version); err != nil {
		return nil, err
	}
	parts = append(parts, rid)
	if err := add(ri.KEM); err != nil {
		return nil, err
	}
	if err := add(ri.KEMCT); err != nil {
		return nil, err
	}
	if err := add(ri.KDF); err != nil {
		return nil, err
	}
	if err := add(ri.KEKLength); err != nil {
		return nil, err
	}
	if len(ri.UKM) > 0 {
		inner, err := asn1.Marshal(ri.UKM)
		if err != nil {
			return nil, err
		}
		if err := add(asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 0, IsCompound: true, Bytes: inner}); err != nil {
			return nil, err
		}
	}
	if err := add(ri.Wrap); err != nil {
		return nil, err
	}
	if err := add(ri.EncryptedKey); err != nil {
		return nil, err
	}

	kemri, err := asn1.Marshal(asn1.RawValue{
		Class:      asn1.ClassUniversal,
		Tag:        asn1.TagSequence,
		IsCompound: true,
		Bytes:      bytes.Join(parts, nil),
	})
	if err != nil {
		return nil, err
	}

	oriType, err := asn1.Marshal(oid.MustParse(oid.OriKEM))
	if err != nil {
		return nil, err
	}
	return asn1.Marshal(asn1.RawValue{
		Class:      asn1.ClassContextSpecific,
		Tag:        oriTag,
		IsCompound: true,
		Bytes:      append(oriType, kemri...),
	})
}

// parseKEMRecipientInfo decodes a RecipientInfo. ok is false when raw is a
// well-formed recipient of another kind.
func parseKEMRecipientInfo(raw asn1.RawValue) (ri *KEMRecipientInfo, ok bool, err error) {
	if raw.Class != asn1.ClassContextSpecific || raw.Tag != oriTag {
		return nil, false, nil
	}

	var oriType asn1.ObjectIdentifier
	rest, err := asn1.Unmarshal(raw.Bytes, &oriType)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse oriType: %w", err)
	}
	if !oid.Equal(oriType, oid.OriKEM) {
		return nil, false, nil
	}

	var seq asn1.RawValue
	rest, err = asn1.Unmarshal(rest, &seq)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse oriValue: %w", err)
	}
	if len(rest) > 0 || seq.Class != asn1.ClassUniversal || seq.Tag != asn1.TagSequence {
		return nil, false, fmt.Errorf("malformed KEMRecipientInfo")
	}

	ri = &KEMRecipientInfo{}
	remaining := seq.Bytes

	if remaining, err = asn1.Unmarshal(remaining, &ri.Version); err != nil {
		return nil, false, fmt.Errorf("failed to parse version: %w", err)
	}
	if ri.Version != kemriVersion {
		return nil, false, fmt.Errorf("unsupported KEMRecipientInfo version %d", ri.Version)
	}
	if ri.RID, remaining, err = parseRecipientIdentifier(remaining); err != nil {
		return nil, false, fmt.Errorf("failed to parse rid: %w", err)
	}
	if remaining, err = asn1.Unmarshal(remaining, &ri.KEM); err != nil {
		return nil, false, fmt.Errorf("failed to parse kem: %w", err)
	}
	if remaining, err = asn1.Unmarshal(remaining, &ri.KEMCT); err != nil {
		return nil, false, fmt.Errorf("failed to parse kemct: %w", err)
	}
	if remaining, err = asn1.Unmarshal(remaining, &ri.KDF); err != nil {
		return nil, false, fmt.Errorf("failed to parse kdf: %w", err)
	}
	if remaining, err = asn1.Unmarshal(remaining, &ri.KEKLength); err != nil {
		return nil, false, fmt.Errorf("failed to parse kekLength: %w", err)
	}
	if ri.KEKLength < 1 || ri.KEKLength > 65535 {
		return nil, false, fmt.Errorf("kekLength %d out of range", ri.KEKLength)
	}

	var next asn1.RawValue
	after, err := asn1.Unmarshal(remaining, &next)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse wrap: %w", err)
	}
	if next.Class == asn1.ClassContextSpecific && next.Tag == 0 {
		trailing, err := asn1.Unmarshal(next.Bytes, &ri.UKM)
		if err != nil || len(trailing) > 0 {
			return nil, false, fmt.Errorf("malformed ukm")
		}
		remaining = after
	}

	if remaining, err = asn1.Unmarshal(remaining, &ri.Wrap); err != nil {
		return nil, false, fmt.Errorf("failed to parse wrap: %w", err)
	}
	if remaining, err = asn1.Unmarshal(remaining, &ri.EncryptedKey); err != nil {
		return nil, false, fmt.Errorf("failed to parse encryptedKey: %w", err)
	}
	if len(remaining) > 0 {
		return nil, false, fmt.Errorf("trailing data in KEMRecipientInfo")
	}
	return ri, true, nil
}

// computeVersion applies the EnvelopedData version rules of RFC 5652
// Section 6.1.
func computeVersion(ed *EnvelopedData) int {
	hasOriginator := len(ed.OriginatorInfo.FullBytes) > 0
	// pwri [3] and ori [4] force version 3.
	for _, ri := range ed.RecipientInfos {
		if ri.Class == asn1.ClassContextSpecific && (ri.Tag == 3 || ri.Tag == oriTag) {
			return Version3
		}
	}
	if hasOriginator || len(ed.UnprotectedAttrs) > 0 {
		return Version2
	}
	for _, ri := range ed.RecipientInfos {
		// Only a ktri (bare SEQUENCE) with version 0 keeps the structure at 0.
		if ri.Class != asn1.ClassUniversal || ri.Tag != asn1.TagSequence {
			return Version2
		}
		var v int
		if _, err := asn1.Unmarshal(ri.Bytes, &v); err != nil || v != 0 {
			return Version2
		}
	}
	return Version0
}

func algorithmID(id string) (pkix.AlgorithmIdentifier, error) {
	parsed, err := oid.Parse(id)
	if err != nil {
		return pkix.AlgorithmIdentifier{}, err
	}
	return pkix.AlgorithmIdentifier{Algorithm: parsed}, nil
}
