package qubitcrypt

import (
	"bytes"
	"encoding/asn1"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sealFor(t *testing.T, content []byte, recipients ...*Recipient) []byte {
	t.Helper()
	b, err := NewEnvelopedDataBuilder(AES256CBC)
	require.NoError(t, err)
	for _, r := range recipients {
		require.NoError(t, b.KEMRecipient(r, KDFHKDFSHA256, WrapAES256, nil))
	}
	require.NoError(t, b.Content(content))
	der, err := b.Build()
	require.NoError(t, err)
	return der
}

func newTestRecipient(t *testing.T, id string) (*Recipient, *PrivateKey) {
	t.Helper()
	pub, priv, err := GenerateKeyPair(id)
	require.NoError(t, err)
	r, err := NewRecipient(pub)
	require.NoError(t, err)
	return r, priv
}

func TestEnvelopedData_RoundTrip(t *testing.T) {
	r, priv := newTestRecipient(t, KEMXWing)
	attrValue, err := asn1.Marshal([]byte("abc"))
	require.NoError(t, err)

	b, err := NewEnvelopedDataBuilder(AES256CBC)
	require.NoError(t, err)
	require.NoError(t, b.KEMRecipient(r, KDFHKDFSHA256, WrapAES256, []byte("test")))
	require.NoError(t, b.Content([]byte("abc")))
	require.NoError(t, b.UnprotectedAttribute("1.3.6.1.4.1.22554.5.6", attrValue))
	der, err := b.Build()
	require.NoError(t, err)

	content, err := DecryptEnvelopedData(der, r, priv)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), content.Content())
	require.Equal(t, 3, content.Version())
	require.Nil(t, content.OriginatorInfo())
	require.Len(t, content.RecipientInfos(), 1)
	require.Equal(t, AES256CBC, content.ContentEncryptionAlgorithm())

	kemris := content.KEMRecipients()
	require.Len(t, kemris, 1)
	require.Equal(t, KEMXWing, kemris[0].KEM)
	require.Equal(t, KDFHKDFSHA256, kemris[0].KDF)
	require.Equal(t, WrapAES256, kemris[0].Wrap)
	require.Equal(t, 32, kemris[0].KEKLength)
	require.Equal(t, []byte("test"), kemris[0].UKM)
	require.Equal(t, r.SubjectKeyID(), kemris[0].SubjectKeyID)

	attrs := content.UnprotectedAttributes()
	require.Equal(t, []Attribute{{Type: "1.3.6.1.4.1.22554.5.6", Values: [][]byte{attrValue}}}, attrs)
}

func TestEnvelopedData_Lengths(t *testing.T) {
	r, priv := newTestRecipient(t, KEMXWing)
	for _, n := range []int{0, 1, 4096, 4097} {
		plaintext := bytes.Repeat([]byte("q"), n)
		content, err := DecryptEnvelopedData(sealFor(t, plaintext, r), r, priv)
		require.NoError(t, err, "length %d", n)
		require.Equal(t, plaintext, content.Content())
	}
}

func TestEnvelopedData_MultipleRecipients(t *testing.T) {
	alice, alicePriv := newTestRecipient(t, KEMXWing)
	bob, bobPriv := newTestRecipient(t, KEMMLKEM1024)
	carol, carolPriv := newTestRecipient(t, KEMMLKEM768X25519)
	mallory, malloryPriv := newTestRecipient(t, KEMXWing)

	der := sealFor(t, []byte("for three"), alice, bob, carol)
	ed, err := ParseEnvelopedData(EncodePEM(der))
	require.NoError(t, err)
	require.Len(t, ed.KEMRecipients(), 3)

	for _, tc := range []struct {
		r    *Recipient
		priv *PrivateKey
	}{{alice, alicePriv}, {bob, bobPriv}, {carol, carolPriv}} {
		content, err := ed.Decrypt(tc.r, tc.priv)
		require.NoError(t, err)
		require.Equal(t, []byte("for three"), content.Content())
	}

	_, err = ed.Decrypt(mallory, malloryPriv)
	require.ErrorIs(t, err, ErrInvalidContent)
}

func TestEnvelopedData_Errors(t *testing.T) {
	r, priv := newTestRecipient(t, KEMXWing)
	der := sealFor(t, []byte("x"), r)

	t.Run("wrong private key", func(t *testing.T) {
		_, other := newTestRecipient(t, KEMXWing)
		_, err := DecryptEnvelopedData(der, r, other)
		require.ErrorIs(t, err, ErrDecryptionFailed)
		var decErr *DecryptionError
		require.True(t, errors.As(err, &decErr))
	})

	t.Run("signature key", func(t *testing.T) {
		_, dsaPriv, err := GenerateKeyPair(DSAMLDSA44)
		require.NoError(t, err)
		_, err = DecryptEnvelopedData(der, r, dsaPriv)
		require.ErrorIs(t, err, ErrUnsupportedOperation)
	})

	t.Run("nil arguments", func(t *testing.T) {
		_, err := DecryptEnvelopedData(der, nil, priv)
		require.ErrorIs(t, err, ErrInvalidPrivateKey)
	})

	t.Run("not enveloped data", func(t *testing.T) {
		_, err := ParseEnvelopedData([]byte("hello"))
		require.ErrorIs(t, err, ErrInvalidContent)
	})

	t.Run("unknown cipher", func(t *testing.T) {
		_, err := NewEnvelopedDataBuilder(ContentEncryptionAlgorithm("1.2.3.4"))
		require.ErrorIs(t, err, ErrInvalidOID)
		var algErr *AlgorithmError
		require.ErrorAs(t, err, &algErr)
	})

	t.Run("second content", func(t *testing.T) {
		b, err := NewEnvelopedDataBuilder(AES128CBC)
		require.NoError(t, err)
		require.NoError(t, b.KEMRecipient(r, KDFSHAKE128, WrapAES128, nil))
		require.NoError(t, b.Content([]byte("one")))
		require.ErrorIs(t, b.Content([]byte("two")), ErrInvalidBuilderState)
	})

	t.Run("no recipients", func(t *testing.T) {
		b, err := NewEnvelopedDataBuilder(AES128CBC)
		require.NoError(t, err)
		require.NoError(t, b.Content([]byte("one")))
		_, err = b.Build()
		require.ErrorIs(t, err, ErrInvalidBuilderState)
	})

	t.Run("bad attribute", func(t *testing.T) {
		b, err := NewEnvelopedDataBuilder(AES128CBC)
		require.NoError(t, err)
		require.ErrorIs(t, b.UnprotectedAttribute("not-an-oid", []byte{0x05, 0x00}), ErrInvalidOID)
		require.ErrorIs(t, b.UnprotectedAttribute("1.2.3", []byte{0x05}), ErrInvalidContent)
	})

	t.Run("nil recipient", func(t *testing.T) {
		b, err := NewEnvelopedDataBuilder(AES128CBC)
		require.NoError(t, err)
		require.ErrorIs(t, b.KEMRecipient(nil, KDFHKDFSHA256, WrapAES128, nil), ErrInvalidPublicKey)
	})
}

func TestEncodePEM(t *testing.T) {
	r, _ := newTestRecipient(t, KEMMLKEM512)
	armored := string(EncodePEM(sealFor(t, []byte("x"), r)))
	require.True(t, strings.HasPrefix(armored, "-----BEGIN "+EnvelopedDataPEMType+"-----\n"))
}
