// Package kem provides the key encapsulation mechanisms used by qubitcrypt.
//
// # Algorithms
//
//   - ML-KEM-512, ML-KEM-768, ML-KEM-1024 (NIST FIPS 203), backed by the
//     circl kem.Scheme implementations.
//
//   - X25519 as a KEM: the ciphertext is an ephemeral public key and the
//     shared secret is the raw Diffie-Hellman output.
//
//   - X-Wing: the hybrid of ML-KEM-768 and X25519 with a SHA3-256 combiner.
//     Private keys are 32 byte seeds expanded with SHAKE128.
//
//   - Composite ML-KEM-768 + X25519: keys and ciphertexts are DER
//     SEQUENCE SIZE (2) OF BIT STRING values.
//
// # Key Formats
//
// All keys and ciphertexts are raw byte slices. ML-KEM private keys use the
// expanded FIPS 203 decapsulation key encoding. X-Wing private keys are the
// seed only, so [KEM.PublicKey] re-derives the full key pair on every call.
//
// Keep private keys secure. They should never be logged, transmitted in
// plaintext, or stored in version control.
package kem
