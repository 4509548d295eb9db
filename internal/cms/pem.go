package cms

import "encoding/pem"

// PEMType is the label written by EncodePEM.
const PEMType = "CMS"

// EncodePEM wraps a DER ContentInfo in a CMS PEM block.
func EncodePEM(der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: PEMType, Bytes: der})
}
