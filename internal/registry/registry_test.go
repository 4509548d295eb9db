package registry

import (
	"errors"
	"testing"

	"github.com/qubitcrypt/qubitcrypt-go/internal/oid"
	"github.com/qubitcrypt/qubitcrypt-go/internal/qerrors"
)

func TestKEM_AllRegistered(t *testing.T) {
	for _, id := range KEMs() {
		t.Run(id, func(t *testing.T) {
			k, err := KEM(id)
			if err != nil {
				t.Fatalf("KEM(%s) error = %v", id, err)
			}
			if k.Info().OID != id {
				t.Errorf("Info().OID = %s, want %s", k.Info().OID, id)
			}

			pk, sk, err := k.GenerateKey(nil)
			if err != nil {
				t.Fatalf("GenerateKey() error = %v", err)
			}
			ct, ss, err := k.Encapsulate(nil, pk)
			if err != nil {
				t.Fatalf("Encapsulate() error = %v", err)
			}
			got, err := k.Decapsulate(sk, ct)
			if err != nil {
				t.Fatalf("Decapsulate() error = %v", err)
			}
			if string(got) != string(ss) {
				t.Error("shared secrets differ")
			}
		})
	}
}

func TestDSA_AllRegistered(t *testing.T) {
	for _, id := range DSAs() {
		t.Run(id, func(t *testing.T) {
			d, err := DSA(id)
			if err != nil {
				t.Fatalf("DSA(%s) error = %v", id, err)
			}
			if d.Info().OID != id {
				t.Errorf("Info().OID = %s, want %s", d.Info().OID, id)
			}

			pk, sk, err := d.GenerateKey(nil)
			if err != nil {
				t.Fatalf("GenerateKey() error = %v", err)
			}
			sig, err := d.Sign(sk, []byte("msg"))
			if err != nil {
				t.Fatalf("Sign() error = %v", err)
			}
			if err := d.Verify(pk, []byte("msg"), sig); err != nil {
				t.Errorf("Verify() error = %v", err)
			}
		})
	}
}

func TestSymmetric_AllRegistered(t *testing.T) {
	for _, id := range KDFs() {
		k, err := KDF(id)
		if err != nil || k.OID() != id {
			t.Errorf("KDF(%s) = %v, %v", id, k, err)
		}
	}
	for _, id := range Wraps() {
		w, err := Wrap(id)
		if err != nil || w.OID() != id {
			t.Errorf("Wrap(%s) = %v, %v", id, w, err)
		}
	}
	for _, id := range Ciphers() {
		c, err := Cipher(id)
		if err != nil || c.OID() != id {
			t.Errorf("Cipher(%s) = %v, %v", id, c, err)
		}
	}
}

func TestUnknownOID(t *testing.T) {
	const unknown = "1.2.3.4.5"

	lookups := map[string]func() error{
		"KEM":    func() error { _, err := KEM(unknown); return err },
		"DSA":    func() error { _, err := DSA(unknown); return err },
		"KDF":    func() error { _, err := KDF(unknown); return err },
		"Wrap":   func() error { _, err := Wrap(unknown); return err },
		"Cipher": func() error { _, err := Cipher(unknown); return err },
		// A KEM identifier is not a wrap algorithm.
		"Wrap(KEM)": func() error { _, err := Wrap(oid.XWing); return err },
	}

	for name, lookup := range lookups {
		t.Run(name, func(t *testing.T) {
			err := lookup()
			if !errors.Is(err, qerrors.ErrInvalidOID) {
				t.Errorf("error = %v, want ErrInvalidOID", err)
			}
			var algErr *qerrors.AlgorithmError
			if !errors.As(err, &algErr) {
				t.Error("error should be *AlgorithmError")
			}
		})
	}
}

func TestNotImplemented(t *testing.T) {
	_, err := DSA(oid.SLHDSASHA2128s)
	if !errors.Is(err, qerrors.ErrNotImplemented) {
		t.Errorf("DSA(SLH-DSA) error = %v, want ErrNotImplemented", err)
	}
	if !IsKnown(oid.SLHDSASHA2128s) {
		t.Error("SLH-DSA should be known")
	}
	if IsDSA(oid.SLHDSASHA2128s) {
		t.Error("SLH-DSA should not report a provider")
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		id                               string
		isKEM, isDSA, isComposite, known bool
	}{
		{oid.XWing, true, false, false, true},
		{oid.MLKEM768X25519, true, false, true, true},
		{oid.MLDSA65Ed25519, false, true, true, true},
		{oid.Ed25519, false, true, false, true},
		{oid.HKDFSHA256, false, false, false, true},
		{oid.AES256CBC, false, false, false, true},
		{"1.2.3", false, false, false, false},
	}

	for _, tt := range tests {
		if got := IsKEM(tt.id); got != tt.isKEM {
			t.Errorf("IsKEM(%s) = %v, want %v", tt.id, got, tt.isKEM)
		}
		if got := IsDSA(tt.id); got != tt.isDSA {
			t.Errorf("IsDSA(%s) = %v, want %v", tt.id, got, tt.isDSA)
		}
		if got := IsComposite(tt.id); got != tt.isComposite {
			t.Errorf("IsComposite(%s) = %v, want %v", tt.id, got, tt.isComposite)
		}
		if got := IsKnown(tt.id); got != tt.known {
			t.Errorf("IsKnown(%s) = %v, want %v", tt.id, got, tt.known)
		}
	}
}

func TestName(t *testing.T) {
	tests := map[string]string{
		oid.XWing:      "X-Wing",
		oid.MLKEM768:   "ML-KEM-768",
		oid.MLDSA65:    "ML-DSA-65",
		oid.HKDFSHA256: "HKDF-SHA256",
		oid.AES256Wrap: "AES-256-KW",
		"1.2.3":        "1.2.3",
	}
	for id, want := range tests {
		if got := Name(id); got != want {
			t.Errorf("Name(%s) = %q, want %q", id, got, want)
		}
	}
}

func TestEnumerationIsACopy(t *testing.T) {
	ids := KEMs()
	ids[0] = "mutated"
	if KEMs()[0] == "mutated" {
		t.Error("KEMs() exposed internal state")
	}
}
