package qubitcrypt

import (
	"errors"
	"fmt"

	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidPublicKey is returned when a public key has the wrong size,
	// the wrong algorithm or cannot be decoded.
	ErrInvalidPublicKey = qerrors.ErrInvalidPublicKey

	// ErrInvalidPrivateKey is returned when a private key has the wrong size,
	// the wrong algorithm or cannot be decoded.
	ErrInvalidPrivateKey = qerrors.ErrInvalidPrivateKey

	// ErrInvalidCiphertext is returned when a KEM ciphertext is malformed.
	ErrInvalidCiphertext = qerrors.ErrInvalidCiphertext

	// ErrInvalidSignature is returned when a signature is malformed or does not verify.
	ErrInvalidSignature = qerrors.ErrInvalidSignature

	// ErrInvalidOID is returned for algorithm identifiers no provider claims.
	ErrInvalidOID = qerrors.ErrInvalidOID

	// ErrInvalidContent is returned for malformed CMS input and for messages
	// that hold no recipient info for the caller.
	ErrInvalidContent = qerrors.ErrInvalidContent

	// ErrKeyPairGenerationFailed is returned when key generation cannot read randomness.
	ErrKeyPairGenerationFailed = qerrors.ErrKeyPairGenerationFailed

	// ErrUnsupportedOperation is returned when a key is used for an operation
	// its algorithm does not offer, such as signing with a KEM key.
	ErrUnsupportedOperation = qerrors.ErrUnsupportedOperation

	// ErrNotImplemented is returned for recognized algorithms without a provider.
	ErrNotImplemented = qerrors.ErrNotImplemented

	// ErrDecryptionFailed is returned when enveloped content cannot be decrypted.
	ErrDecryptionFailed = qerrors.ErrDecryptionFailed

	// ErrInvalidBuilderState is returned when builder calls are made out of order.
	ErrInvalidBuilderState = qerrors.ErrInvalidBuilderState

	// ErrInvalidKeySize is returned when a symmetric key has the wrong length.
	ErrInvalidKeySize = qerrors.ErrInvalidKeySize
)

// QubitCryptError is implemented by all typed errors of this package.
type QubitCryptError interface {
	error
	QubitCryptError() // marker method
}

// AlgorithmError reports a failure tied to an algorithm identifier.
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

// QubitCryptError implements the QubitCryptError interface.
func (e *AlgorithmError) QubitCryptError() {}

// DecryptionError represents a failure to decrypt enveloped content. It does
// not say which step failed.
type DecryptionError struct{}

func (e *DecryptionError) Error() string {
	return ErrDecryptionFailed.Error()
}

// Is implements errors.Is for sentinel error matching.
func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryptionFailed
}

// QubitCryptError implements the QubitCryptError interface.
func (e *DecryptionError) QubitCryptError() {}

// SignatureVerificationError reports a signature that did not verify.
type SignatureVerificationError struct {
	OID string
}

func (e *SignatureVerificationError) Error() string {
	return fmt.Sprintf("signature verification failed for %s", e.OID)
}

// Is implements errors.Is for sentinel error matching.
func (e *SignatureVerificationError) Is(target error) bool {
	return target == ErrInvalidSignature
}

// QubitCryptError implements the QubitCryptError interface.
func (e *SignatureVerificationError) QubitCryptError() {}

// wrapError converts internal errors to public errors.
// This ensures that errors.As() finds the exported types.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var decErr *qerrors.DecryptionError
	if errors.As(err, &decErr) {
		return &DecryptionError{}
	}

	var algErr *qerrors.AlgorithmError
	if errors.As(err, &algErr) {
		return &AlgorithmError{OID: algErr.OID, Err: algErr.Err}
	}

	return err
}
