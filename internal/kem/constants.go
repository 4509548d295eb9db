package kem

import (
	"github.com/cloudflare/circl/dh/x25519"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

const (
	// X25519KeySize is the size of an X25519 public or private key in bytes.
	X25519KeySize = x25519.Size

	// XWingPublicKeySize is the size of an X-Wing public key: pk_M || pk_X.
	XWingPublicKeySize = mlkem768.PublicKeySize + X25519KeySize
	// XWingPrivateKeySize is the size of an X-Wing private key seed.
	XWingPrivateKeySize = 32
	// XWingCiphertextSize is the size of an X-Wing ciphertext: ct_M || ct_X.
	XWingCiphertextSize = mlkem768.CiphertextSize + X25519KeySize
	// XWingSharedSecretSize is the size of the X-Wing shared secret.
	XWingSharedSecretSize = 32

	// xwingExpandedSize is the SHAKE128 output length used to derive the
	// ML-KEM seed (d || z) and the X25519 private key.
	xwingExpandedSize = mlkem768.KeySeedSize + X25519KeySize
)

// xwingLabel is the X-Wing domain separator, placed first in the combiner input.
var xwingLabel = []byte(`\.//^\`)
