// Package registry maps algorithm identifiers to their providers.
//
// The set of algorithms is closed: every lookup is a switch over the known
// identifiers. Unknown identifiers fail with qerrors.ErrInvalidOID and
// recognized identifiers without a provider fail with qerrors.ErrNotImplemented.
package registry

import (
	"github.com/qubitcrypt/qubitcrypt-go/internal/cea"
	"github.com/qubitcrypt/qubitcrypt-go/internal/dsa"
	"github.com/qubitcrypt/qubitcrypt-go/internal/kdf"
	"github.com/qubitcrypt/qubitcrypt-go/internal/kem"
	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
	"github.com/qubitcrypt/qubitcrypt-go/internal/wrap"
)

var kemOIDs = []string{
	oid.MLKEM512,
	oid.MLKEM768,
	oid.MLKEM1024,
	oid.X25519,
	oid.XWing,
	oid.MLKEM768X25519,
}

var dsaOIDs = []string{
	oid.MLDSA44,
	oid.MLDSA65,
	oid.MLDSA87,
	oid.Ed25519,
	oid.MLDSA65Ed25519,
}

var kdfOIDs = []string{
	oid.HKDFSHA256,
	oid.HKDFSHA384,
	oid.HKDFSHA512,
	oid.SHAKE128,
	oid.SHAKE256,
}

var wrapOIDs = []string{
	oid.AES128Wrap,
	oid.AES192Wrap,
	oid.AES256Wrap,
}

var cipherOIDs = []string{
	oid.AES128CBC,
	oid.AES192CBC,
	oid.AES256CBC,
}

var unimplementedDSAs = []string{
	oid.SLHDSASHA2128s, oid.SLHDSASHA2128f,
	oid.SLHDSASHA2192s, oid.SLHDSASHA2192f,
	oid.SLHDSASHA2256s, oid.SLHDSASHA2256f,
	oid.SLHDSASHAKE128s, oid.SLHDSASHAKE128f,
	oid.SLHDSASHAKE192s, oid.SLHDSASHAKE192f,
	oid.SLHDSASHAKE256s, oid.SLHDSASHAKE256f,
}

// KEM returns the KEM registered under id.
func KEM(id string) (kem.KEM, error) {
	switch id {
	case oid.MLKEM512:
		return kem.NewMLKEM512(), nil
	case oid.MLKEM768:
		return kem.NewMLKEM768(), nil
	case oid.MLKEM1024:
		return kem.NewMLKEM1024(), nil
	case oid.X25519:
		return kem.NewX25519(), nil
	case oid.XWing:
		return kem.NewXWing(), nil
	case oid.MLKEM768X25519:
		return kem.NewMLKEM768X25519(), nil
	}
	return nil, qerrors.UnknownOID(id)
}

// DSA returns the signature algorithm registered under id.
func DSA(id string) (dsa.DSA, error) {
	switch id {
	case oid.MLDSA44:
		return dsa.NewMLDSA44(), nil
	case oid.MLDSA65:
		return dsa.NewMLDSA65(), nil
	case oid.MLDSA87:
		return dsa.NewMLDSA87(), nil
	case oid.Ed25519:
		return dsa.NewEd25519(), nil
	case oid.MLDSA65Ed25519:
		return dsa.NewMLDSA65Ed25519(), nil
	}
	if contains(unimplementedDSAs, id) {
		return nil, &qerrors.AlgorithmError{OID: id, Err: qerrors.ErrNotImplemented}
	}
	return nil, qerrors.UnknownOID(id)
}

// KDF returns the key derivation function registered under id.
func KDF(id string) (kdf.KDF, error) {
	switch id {
	case oid.HKDFSHA256:
		return kdf.NewHKDFSHA256(), nil
	case oid.HKDFSHA384:
		return kdf.NewHKDFSHA384(), nil
	case oid.HKDFSHA512:
		return kdf.NewHKDFSHA512(), nil
	case oid.SHAKE128:
		return kdf.NewSHAKE128(), nil
	case oid.SHAKE256:
		return kdf.NewSHAKE256(), nil
	}
	return nil, qerrors.UnknownOID(id)
}

// Wrap returns the key wrap algorithm registered under id.
func Wrap(id string) (wrap.Wrapper, error) {
	switch id {
	case oid.AES128Wrap:
		return wrap.NewAES128(), nil
	case oid.AES192Wrap:
		return wrap.NewAES192(), nil
	case oid.AES256Wrap:
		return wrap.NewAES256(), nil
	}
	return nil, qerrors.UnknownOID(id)
}

// Cipher returns the content-encryption algorithm registered under id.
func Cipher(id string) (cea.Cipher, error) {
	switch id {
	case oid.AES128CBC:
		return cea.NewAES128CBC(), nil
	case oid.AES192CBC:
		return cea.NewAES192CBC(), nil
	case oid.AES256CBC:
		return cea.NewAES256CBC(), nil
	}
	return nil, qerrors.UnknownOID(id)
}

// IsKEM reports whether id names a KEM with a provider.
func IsKEM(id string) bool { return contains(kemOIDs, id) }

// IsDSA reports whether id names a signature algorithm with a provider.
func IsDSA(id string) bool { return contains(dsaOIDs, id) }

// IsComposite reports whether keys for id use the composite encoding.
func IsComposite(id string) bool {
	return id == oid.MLKEM768X25519 || id == oid.MLDSA65Ed25519
}

// IsKnown reports whether id is recognized, with or without a provider.
func IsKnown(id string) bool {
	return IsKEM(id) || IsDSA(id) ||
		contains(kdfOIDs, id) || contains(wrapOIDs, id) || contains(cipherOIDs, id) ||
		contains(unimplementedDSAs, id)
}

// KEMs returns the identifiers of every KEM with a provider.
func KEMs() []string { return clone(kemOIDs) }

// DSAs returns the identifiers of every signature algorithm with a provider.
func DSAs() []string { return clone(dsaOIDs) }

// KDFs returns the identifiers of every key derivation function.
func KDFs() []string { return clone(kdfOIDs) }

// Wraps returns the identifiers of every key wrap algorithm.
func Wraps() []string { return clone(wrapOIDs) }

// Ciphers returns the identifiers of every content-encryption algorithm.
func Ciphers() []string { return clone(cipherOIDs) }

// Name returns a display name for id, or id itself when it has no provider.
func Name(id string) string {
	if k, err := KEM(id); err == nil {
		return k.Info().Name
	}
	if d, err := DSA(id); err == nil {
		return d.Info().Name
	}
	if n, ok := symmetricNames[id]; ok {
		return n
	}
	return id
}

var symmetricNames = map[string]string{
	oid.HKDFSHA256: "HKDF-SHA256",
	oid.HKDFSHA384: "HKDF-SHA384",
	oid.HKDFSHA512: "HKDF-SHA512",
	oid.SHAKE128:   "SHAKE128",
	oid.SHAKE256:   "SHAKE256",
	oid.AES128Wrap: "AES-128-KW",
	oid.AES192Wrap: "AES-192-KW",
	oid.AES256Wrap: "AES-256-KW",
	oid.AES128CBC:  "AES-128-CBC",
	oid.AES192CBC:  "AES-192-CBC",
	oid.AES256CBC:  "AES-256-CBC",
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func clone(ids []string) []string {
	return append([]string(nil), ids...)
}
