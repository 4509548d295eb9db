// Package qubitcrypt provides post-quantum and hybrid public-key encryption
// for CMS enveloped data.
//
// Keys are tagged with an algorithm identifier and travel as SPKI and PKCS#8
// in DER or PEM. The KEMs are ML-KEM-512/768/1024, X25519, X-Wing and a
// composite ML-KEM-768 + X25519. The signature algorithms are
// ML-DSA-44/65/87, Ed25519 and a composite ML-DSA-65 + Ed25519.
//
// Enveloped data follows RFC 5652 with KEMRecipientInfo recipients
// (RFC 9629). Basic usage:
//
//	pub, priv, err := qubitcrypt.GenerateKeyPair(qubitcrypt.KEMXWing)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	recipient, err := qubitcrypt.NewRecipient(pub)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b, err := qubitcrypt.NewEnvelopedDataBuilder(qubitcrypt.AES256CBC)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = b.KEMRecipient(recipient, qubitcrypt.KDFHKDFSHA256, qubitcrypt.WrapAES256, nil)
//	_ = b.Content([]byte("hello"))
//	der, err := b.Build()
//
//	msg, err := qubitcrypt.DecryptEnvelopedData(der, recipient, priv)
//	fmt.Println(string(msg.Content()))
//
// Errors can be matched with errors.Is against the exported sentinels.
// Decryption failures never reveal which step failed.
package qubitcrypt
