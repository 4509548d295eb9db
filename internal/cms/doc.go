// Package cms builds and reads CMS EnvelopedData (RFC 5652) whose recipients
// use KEMRecipientInfo (RFC 9629).
//
// A Builder draws a random content-encryption key, and for every recipient
// encapsulates to its KEM public key, derives a key-encryption key from the
// shared secret over CMSORIforKEMOtherInfo and wraps the content-encryption
// key. Content is encrypted with AES-CBC. Envelope reverses the process for a
// single recipient.
//
// Algorithms are looked up through the registry package by dotted OID.
package cms
