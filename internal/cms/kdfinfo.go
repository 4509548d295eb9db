package cms

import (
	"crypto/x509/pkix"
	"encoding/asn1"
)

// kemOtherInfo is the KDF info input defined by RFC 9629 Section 5.
//
//	CMSORIforKEMOtherInfo ::= SEQUENCE {
//	  wrap KeyEncryptionAlgorithmIdentifier,
//	  kekLength INTEGER (1..65535),
//	  ukm [0] EXPLICIT UserKeyingMaterial OPTIONAL }
type kemOtherInfo struct {
	Wrap      pkix.AlgorithmIdentifier
	KEKLength int
	UKM       []byte `asn1:"optional,explicit,tag:0"`
}

func marshalKEMOtherInfo(wrapAlg pkix.AlgorithmIdentifier, kekLength int, ukm []byte) ([]byte, error) {
	info := kemOtherInfo{Wrap: wrapAlg, KEKLength: kekLength}
	// An empty, non-nil slice would still be encoded.
	if len(ukm) > 0 {
		info.UKM = ukm
	}
	return asn1.Marshal(info)
}
