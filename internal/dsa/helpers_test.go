package dsa

import (
	"github.com/qubitcrypt/qubitcrypt-go/internal/composite"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

func decodePair(der []byte) ([2][]byte, error) {
	k, err := composite.Decode(der, qerrors.ErrInvalidContent)
	if err != nil {
		return [2][]byte{}, err
	}
	return [2][]byte{k.PQ, k.Classical}, nil
}

func encodePair(pq, classical []byte) ([]byte, error) {
	return composite.Encode(pq, classical)
}
