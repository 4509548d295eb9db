// Package qerrors provides shared error types for qubitcrypt.
package qerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidPublicKey is returned when a public key has the wrong size or
	// cannot be decoded.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidPrivateKey is returned when a private key has the wrong size or
	// cannot be decoded.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidCiphertext is returned when a KEM ciphertext has the wrong size
	// or cannot be decoded.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")

	// ErrInvalidSignature is returned when a signature is malformed or does not verify.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidOID is returned when an algorithm identifier is not recognized.
	ErrInvalidOID = errors.New("invalid algorithm identifier")

	// ErrInvalidContent is returned when a CMS structure is malformed, has the
	// wrong content type, or has no recipient matching the caller.
	ErrInvalidContent = errors.New("invalid content")

	// ErrKeyPairGenerationFailed is returned when the random source fails during
	// key generation.
	ErrKeyPairGenerationFailed = errors.New("key pair generation failed")

	// ErrUnsupportedOperation is returned when a key is asked to do something its
	// algorithm cannot, such as signing with a KEM key.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrNotImplemented is returned for algorithms that are recognized but not wired.
	ErrNotImplemented = errors.New("not implemented")

	// ErrDecryptionFailed is returned when enveloped content cannot be decrypted.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidBuilderState is returned when a builder method is called out of order.
	ErrInvalidBuilderState = errors.New("invalid builder state")

	// ErrInvalidKeySize is returned when a symmetric key has the wrong length.
	ErrInvalidKeySize = errors.New("invalid key size")
)

// AlgorithmError ties a failure to the algorithm identifier it occurred under.
type AlgorithmError struct {
	OID string
	Err error
}

func (e *AlgorithmError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("algorithm %s", e.OID)
	}
	return fmt.Sprintf("algorithm %s: %v", e.OID, e.Err)
}

// Unwrap returns the underlying error.
func (e *AlgorithmError) Unwrap() error {
	return e.Err
}

// DecryptionError reports a failed decryption of enveloped content. It never
// records which step failed.
type DecryptionError struct{}

func (e *DecryptionError) Error() string {
	return ErrDecryptionFailed.Error()
}

// Is implements errors.Is for sentinel error matching.
// All decryption failures match ErrDecryptionFailed.
func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryptionFailed
}

// UnknownOID returns an error for an identifier no registry entry claims.
func UnknownOID(oid string) error {
	return &AlgorithmError{OID: oid, Err: ErrInvalidOID}
}
