// Package oid holds the object identifiers qubitcrypt understands, in dotted
// string form, and converts them to and from encoding/asn1 values.
package oid

import (
	"encoding/asn1"
	"fmt"
	"strconv"
	"strings"

	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// KEM algorithms
const (
	MLKEM512  = "2.16.840.1.101.3.4.4.1"
	MLKEM768  = "2.16.840.1.101.3.4.4.2"
	MLKEM1024 = "2.16.840.1.101.3.4.4.3"

	X25519 = "1.3.101.110"

	// XWing is the X-Wing hybrid of ML-KEM-768 and X25519.
	XWing = "1.3.6.1.4.1.62253.25722"

	// MLKEM768X25519 is the composite ML-KEM-768 + X25519 KEM.
	MLKEM768X25519 = "2.16.840.1.114027.80.5.2.1"
)

// Signature algorithms
const (
	MLDSA44 = "2.16.840.1.101.3.4.3.17"
	MLDSA65 = "2.16.840.1.101.3.4.3.18"
	MLDSA87 = "2.16.840.1.101.3.4.3.19"

	Ed25519 = "1.3.101.112"

	// MLDSA65Ed25519 is the composite ML-DSA-65 + Ed25519 signature.
	MLDSA65Ed25519 = "2.16.840.1.114027.80.8.1.9"
)

// SLH-DSA (FIPS 205) identifiers. These are recognized but have no provider.
const (
	SLHDSASHA2128s  = "2.16.840.1.101.3.4.3.20"
	SLHDSASHA2128f  = "2.16.840.1.101.3.4.3.21"
	SLHDSASHA2192s  = "2.16.840.1.101.3.4.3.22"
	SLHDSASHA2192f  = "2.16.840.1.101.3.4.3.23"
	SLHDSASHA2256s  = "2.16.840.1.101.3.4.3.24"
	SLHDSASHA2256f  = "2.16.840.1.101.3.4.3.25"
	SLHDSASHAKE128s = "2.16.840.1.101.3.4.3.26"
	SLHDSASHAKE128f = "2.16.840.1.101.3.4.3.27"
	SLHDSASHAKE192s = "2.16.840.1.101.3.4.3.28"
	SLHDSASHAKE192f = "2.16.840.1.101.3.4.3.29"
	SLHDSASHAKE256s = "2.16.840.1.101.3.4.3.30"
	SLHDSASHAKE256f = "2.16.840.1.101.3.4.3.31"
)

// Key derivation functions (RFC 8619, RFC 8702)
const (
	HKDFSHA256 = "1.2.840.113549.1.9.16.3.28"
	HKDFSHA384 = "1.2.840.113549.1.9.16.3.29"
	HKDFSHA512 = "1.2.840.113549.1.9.16.3.30"

	SHAKE128 = "2.16.840.1.101.3.4.2.11"
	SHAKE256 = "2.16.840.1.101.3.4.2.12"
)

// Key wrap algorithms (RFC 3394)
const (
	AES128Wrap = "2.16.840.1.101.3.4.1.5"
	AES192Wrap = "2.16.840.1.101.3.4.1.25"
	AES256Wrap = "2.16.840.1.101.3.4.1.45"
)

// Content encryption algorithms
const (
	AES128CBC = "2.16.840.1.101.3.4.1.2"
	AES192CBC = "2.16.840.1.101.3.4.1.22"
	AES256CBC = "2.16.840.1.101.3.4.1.42"
)

// CMS content types and recipient info types
const (
	Data          = "1.2.840.113549.1.7.1"
	EnvelopedData = "1.2.840.113549.1.7.3"

	// OriKEM is id-ori-kem from RFC 9629.
	OriKEM = "1.2.840.113549.1.9.16.13.3"
)

// Parse converts a dotted OID string into an asn1.ObjectIdentifier.
func Parse(s string) (asn1.ObjectIdentifier, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q", qerrors.ErrInvalidOID, s)
	}

	id := make(asn1.ObjectIdentifier, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (len(p) > 1 && p[0] == '0') {
			return nil, fmt.Errorf("%w: %q", qerrors.ErrInvalidOID, s)
		}
		id[i] = n
	}
	if id[0] > 2 || (id[0] < 2 && id[1] >= 40) {
		return nil, fmt.Errorf("%w: %q", qerrors.ErrInvalidOID, s)
	}
	return id, nil
}

// MustParse is like Parse but panics on error. Use it for the constants in
// this package only.
func MustParse(s string) asn1.ObjectIdentifier {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Equal reports whether id is the dotted OID s.
func Equal(id asn1.ObjectIdentifier, s string) bool {
	return id.String() == s
}
