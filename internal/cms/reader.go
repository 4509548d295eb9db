package cms

import (
	"encoding/asn1"
	"encoding/pem"
	"fmt"

	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
	"github.com/qubitcrypt/qubitcrypt-go/internal/registry"
)

// Envelope is a parsed EnvelopedData message.
type Envelope struct {
	ed   EnvelopedData
	kems []*KEMRecipientInfo
}

// Parse decodes a ContentInfo carrying EnvelopedData. data may be DER or a
// PEM block with any label.
func Parse(data []byte) (*Envelope, error) {
	der := data
	if block, _ := pem.Decode(data); block != nil {
		der = block.Bytes
	}

	var ci contentInfo
	rest, err := asn1.Unmarshal(der, &ci)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", qerrors.ErrInvalidContent, err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: trailing data after ContentInfo", qerrors.ErrInvalidContent)
	}
	if !oid.Equal(ci.ContentType, oid.EnvelopedData) {
		return nil, fmt.Errorf("%w: content type %s is not enveloped-data", qerrors.ErrInvalidContent, ci.ContentType)
	}
	if ci.Content.Class != asn1.ClassContextSpecific || ci.Content.Tag != 0 || !ci.Content.IsCompound {
		return nil, fmt.Errorf("%w: missing [0] content", qerrors.ErrInvalidContent)
	}

	env := &Envelope{}
	rest, err = asn1.Unmarshal(ci.Content.Bytes, &env.ed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", qerrors.ErrInvalidContent, err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: trailing data after EnvelopedData", qerrors.ErrInvalidContent)
	}
	if len(env.ed.RecipientInfos) == 0 {
		return nil, fmt.Errorf("%w: no recipients", qerrors.ErrInvalidContent)
	}

	for _, raw := range env.ed.RecipientInfos {
		ri, ok, err := parseKEMRecipientInfo(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", qerrors.ErrInvalidContent, err)
		}
		if ok {
			env.kems = append(env.kems, ri)
		}
	}
	return env, nil
}

// Version returns the CMS version of the EnvelopedData.
func (e *Envelope) Version() int { return e.ed.Version }

// OriginatorInfo returns the DER originator info, or nil when absent.
func (e *Envelope) OriginatorInfo() []byte {
	if len(e.ed.OriginatorInfo.FullBytes) == 0 {
		return nil
	}
	return e.ed.OriginatorInfo.FullBytes
}

// RecipientInfos returns every RecipientInfo as DER, KEM or not.
func (e *Envelope) RecipientInfos() [][]byte {
	out := make([][]byte, len(e.ed.RecipientInfos))
	for i, ri := range e.ed.RecipientInfos {
		out[i] = ri.FullBytes
	}
	return out
}

// KEMRecipients returns the decoded KEMRecipientInfo entries.
func (e *Envelope) KEMRecipients() []*KEMRecipientInfo { return e.kems }

// UnprotectedAttributes returns the unprotected attributes, if any.
func (e *Envelope) UnprotectedAttributes() []Attribute { return e.ed.UnprotectedAttrs }

// ContentEncryptionAlgorithm returns the dotted OID of the content cipher.
func (e *Envelope) ContentEncryptionAlgorithm() string {
	return e.ed.EncryptedContentInfo.ContentEncryptionAlgorithm.Algorithm.String()
}

// Decrypt recovers the content for the recipient identified by rid holding
// the KEM private key sk under kemOID. The first KEMRecipientInfo whose rid
// and KEM algorithm match is used.
//
// All cryptographic failures are reported as a single DecryptionError.
func (e *Envelope) Decrypt(rid RecipientIdentifier, kemOID string, sk []byte) ([]byte, error) {
	var ri *KEMRecipientInfo
	for _, candidate := range e.kems {
		if candidate.RID.Equal(rid) && oid.Equal(candidate.KEM.Algorithm, kemOID) {
			ri = candidate
			break
		}
	}
	if ri == nil {
		return nil, fmt.Errorf("%w: no recipient info for this recipient", qerrors.ErrInvalidContent)
	}

	k, err := registry.KEM(ri.KEM.Algorithm.String())
	if err != nil {
		return nil, err
	}
	kd, err := registry.KDF(ri.KDF.Algorithm.String())
	if err != nil {
		return nil, err
	}
	w, err := registry.Wrap(ri.Wrap.Algorithm.String())
	if err != nil {
		return nil, err
	}
	eci := e.ed.EncryptedContentInfo
	c, err := registry.Cipher(eci.ContentEncryptionAlgorithm.Algorithm.String())
	if err != nil {
		return nil, err
	}
	if ri.KEKLength != w.KeySize() {
		return nil, fmt.Errorf("%w: kekLength %d does not match wrap key size %d", qerrors.ErrInvalidContent, ri.KEKLength, w.KeySize())
	}
	var iv []byte
	rest, err := asn1.Unmarshal(eci.ContentEncryptionAlgorithm.Parameters.FullBytes, &iv)
	if err != nil || len(rest) > 0 {
		return nil, fmt.Errorf("%w: malformed content-encryption parameters", qerrors.ErrInvalidContent)
	}

	ss, err := k.Decapsulate(sk, ri.KEMCT)
	if err != nil {
		return nil, &qerrors.DecryptionError{}
	}
	defer clear(ss)

	info, err := marshalKEMOtherInfo(ri.Wrap, ri.KEKLength, ri.UKM)
	if err != nil {
		return nil, &qerrors.DecryptionError{}
	}
	kek, err := kd.Derive(ss, info, ri.KEKLength)
	if err != nil {
		return nil, &qerrors.DecryptionError{}
	}
	defer clear(kek)

	cek, err := w.Unwrap(kek, ri.EncryptedKey)
	if err != nil {
		return nil, &qerrors.DecryptionError{}
	}
	defer clear(cek)

	plaintext, err := c.Decrypt(cek, iv, eci.EncryptedContent)
	if err != nil {
		return nil, &qerrors.DecryptionError{}
	}
	return plaintext, nil
}
