// Package composite encodes the two halves of a composite key, ciphertext or
// signature as a DER SEQUENCE SIZE (2) OF BIT STRING.
//
// The first component is always the post-quantum part, the second the
// classical part. The algorithm identifier is carried by the surrounding
// structure, never by the encoding itself.
package composite

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// ErrEmptyComponent is returned when either half of a composite value is empty.
var ErrEmptyComponent = errors.New("composite: empty component")

// Key is a decoded composite value.
type Key struct {
	PQ        []byte
	Classical []byte
}

// Encode returns the DER encoding of the pair (pq, classical).
func Encode(pq, classical []byte) ([]byte, error) {
	if len(pq) == 0 || len(classical) == 0 {
		return nil, ErrEmptyComponent
	}

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BitString(pq)
		b.AddASN1BitString(classical)
	})
	return b.Bytes()
}

// Decode parses der into its two components. Every failure wraps kind, which
// callers set to the sentinel matching what they were decoding (for example
// qerrors.ErrInvalidPublicKey).
func Decode(der []byte, kind error) (Key, error) {
	input := cryptobyte.String(der)

	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) {
		return Key{}, fmt.Errorf("%w: composite: not a DER SEQUENCE", kind)
	}
	if !input.Empty() {
		return Key{}, fmt.Errorf("%w: composite: trailing data after SEQUENCE", kind)
	}

	var pq, classical []byte
	if !seq.ReadASN1BitStringAsBytes(&pq) || !seq.ReadASN1BitStringAsBytes(&classical) {
		return Key{}, fmt.Errorf("%w: composite: expected two byte-aligned BIT STRINGs", kind)
	}
	if !seq.Empty() {
		return Key{}, fmt.Errorf("%w: composite: more than two components", kind)
	}
	if len(pq) == 0 || len(classical) == 0 {
		return Key{}, fmt.Errorf("%w: %w", kind, ErrEmptyComponent)
	}

	return Key{
		PQ:        append([]byte(nil), pq...),
		Classical: append([]byte(nil), classical...),
	}, nil
}

// Bytes is shorthand for Encode(k.PQ, k.Classical).
func (k Key) Bytes() ([]byte, error) {
	return Encode(k.PQ, k.Classical)
}
