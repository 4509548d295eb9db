package cms

import (
	"crypto/rand"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"io"

	"github.com/qubitcrypt/qubitcrypt-go/internal/cea"
	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
	"github.com/qubitcrypt/qubitcrypt-go/internal/registry"
)

type builderState int

const (
	stateInit builderState = iota
	stateRecipients
	stateContent
	stateBuilt
)

func (s builderState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateRecipients:
		return "recipients"
	case stateContent:
		return "content"
	case stateBuilt:
		return "built"
	}
	return fmt.Sprintf("builderState(%d)", int(s))
}

// Builder assembles an EnvelopedData message. Recipients are added first,
// then the content, then any unprotected attributes. A Builder is single-use
// and not safe for concurrent use.
type Builder struct {
	state  builderState
	cipher cea.Cipher
	rand   io.Reader

	cek        []byte
	recipients []asn1.RawValue
	attrs      []Attribute

	contentAlg pkix.AlgorithmIdentifier
	ciphertext []byte
}

// NewBuilder returns a Builder encrypting content with the cipher registered
// under cipherOID. A nil r means crypto/rand.Reader.
func NewBuilder(cipherOID string, r io.Reader) (*Builder, error) {
	c, err := registry.Cipher(cipherOID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		r = rand.Reader
	}
	return &Builder{cipher: c, rand: r}, nil
}

func (b *Builder) stateError(op string) error {
	return fmt.Errorf("%w: %s in state %s", qerrors.ErrInvalidBuilderState, op, b.state)
}

func (b *Builder) ensureCEK() error {
	if b.cek != nil {
		return nil
	}
	cek := make([]byte, b.cipher.KeySize())
	if _, err := io.ReadFull(b.rand, cek); err != nil {
		return fmt.Errorf("failed to generate content-encryption key: %w", err)
	}
	b.cek = cek
	return nil
}

// AddKEMRecipient encapsulates to pk with the KEM under kemOID, derives a
// key-encryption key with kdfOID over CMSORIforKEMOtherInfo and wraps the
// content-encryption key with wrapOID. ukm may be nil.
func (b *Builder) AddKEMRecipient(rid RecipientIdentifier, kemOID string, pk []byte, kdfOID, wrapOID string, ukm []byte) error {
	if b.state != stateInit && b.state != stateRecipients {
		return b.stateError("add recipient")
	}

	k, err := registry.KEM(kemOID)
	if err != nil {
		return err
	}
	kd, err := registry.KDF(kdfOID)
	if err != nil {
		return err
	}
	w, err := registry.Wrap(wrapOID)
	if err != nil {
		return err
	}
	kemAlg, err := algorithmID(kemOID)
	if err != nil {
		return err
	}
	kdfAlg, err := algorithmID(kdfOID)
	if err != nil {
		return err
	}
	wrapAlg, err := algorithmID(wrapOID)
	if err != nil {
		return err
	}
	if _, err := rid.Marshal(); err != nil {
		return err
	}

	if err := b.ensureCEK(); err != nil {
		return err
	}

	ct, ss, err := k.Encapsulate(b.rand, pk)
	if err != nil {
		return err
	}
	defer clear(ss)

	info, err := marshalKEMOtherInfo(wrapAlg, w.KeySize(), ukm)
	if err != nil {
		return err
	}
	kek, err := kd.Derive(ss, info, w.KeySize())
	if err != nil {
		return err
	}
	defer clear(kek)

	wrapped, err := w.Wrap(kek, b.cek)
	if err != nil {
		return err
	}

	ri := &KEMRecipientInfo{
		Version:      kemriVersion,
		RID:          rid,
		KEM:          kemAlg,
		KEMCT:        ct,
		KDF:          kdfAlg,
		KEKLength:    w.KeySize(),
		UKM:          ukm,
		Wrap:         wrapAlg,
		EncryptedKey: wrapped,
	}
	der, err := ri.Marshal()
	if err != nil {
		return err
	}
	b.recipients = append(b.recipients, asn1.RawValue{
		Class:      asn1.ClassContextSpecific,
		Tag:        oriTag,
		IsCompound: true,
		FullBytes:  der,
	})
	b.state = stateRecipients
	return nil
}

// Content encrypts plaintext under the content-encryption key. It may be
// called once.
func (b *Builder) Content(plaintext []byte) error {
	if b.state != stateInit && b.state != stateRecipients {
		return b.stateError("set content")
	}
	if err := b.ensureCEK(); err != nil {
		return err
	}

	iv, ct, err := b.cipher.Encrypt(b.rand, b.cek, plaintext)
	if err != nil {
		return err
	}
	params, err := asn1.Marshal(iv)
	if err != nil {
		return err
	}
	b.contentAlg = pkix.AlgorithmIdentifier{
		Algorithm:  oid.MustParse(b.cipher.OID()),
		Parameters: asn1.RawValue{FullBytes: params},
	}
	b.ciphertext = ct
	b.state = stateContent
	return nil
}

// UnprotectedAttribute appends attr to the unprotected attributes.
func (b *Builder) UnprotectedAttribute(attr Attribute) error {
	if b.state == stateBuilt {
		return b.stateError("add attribute")
	}
	if len(attr.Type) == 0 || len(attr.Values) == 0 {
		return fmt.Errorf("%w: attribute needs a type and at least one value", qerrors.ErrInvalidContent)
	}
	b.attrs = append(b.attrs, attr)
	return nil
}

// Build returns the DER ContentInfo. The content-encryption key is erased and
// the Builder accepts no further calls.
func (b *Builder) Build() ([]byte, error) {
	if b.state != stateContent {
		return nil, b.stateError("build")
	}
	if len(b.recipients) == 0 {
		return nil, fmt.Errorf("%w: no recipients", qerrors.ErrInvalidBuilderState)
	}

	ed := EnvelopedData{
		RecipientInfos: b.recipients,
		EncryptedContentInfo: EncryptedContentInfo{
			ContentType:                oid.MustParse(oid.Data),
			ContentEncryptionAlgorithm: b.contentAlg,
			EncryptedContent:           b.ciphertext,
		},
		UnprotectedAttrs: b.attrs,
	}
	ed.Version = computeVersion(&ed)

	inner, err := asn1.Marshal(ed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode EnvelopedData: %w", err)
	}
	der, err := asn1.Marshal(contentInfo{
		ContentType: oid.MustParse(oid.EnvelopedData),
		Content:     asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 0, IsCompound: true, Bytes: inner},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode ContentInfo: %w", err)
	}

	clear(b.cek)
	b.cek = nil
	b.state = stateBuilt
	return der, nil
}
