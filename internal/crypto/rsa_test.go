package crypto

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"slinger/internal/domain"
)

type testPair struct{ pub, priv []byte }

var (
	rsaOnce  sync.Once
	rsaPairs [2]testPair
	rsaErr   error
)

// testRSAPairs generates two 2048-bit pairs once for the whole package.
func testRSAPairs(t *testing.T) (testPair, testPair) {
	t.Helper()
	rsaOnce.Do(func() {
		for i := range rsaPairs {
			pub, priv, err := GenerateRSAKeyPair(2048)
			if err != nil {
				rsaErr = err
				return
			}
			rsaPairs[i] = testPair{pub: pub, priv: priv}
		}
	})
	if rsaErr != nil {
		t.Fatalf("GenerateRSAKeyPair: %v", rsaErr)
	}
	return rsaPairs[0], rsaPairs[1]
}

func TestGenerateRSAKeyPair_RejectsUnsupportedSizes(t *testing.T) {
	for _, bits := range []int{0, 512, 1024, 2047, 2049, 8192} {
		if _, _, err := GenerateRSAKeyPair(bits); !errors.Is(err, domain.ErrUnsupportedKeySize) {
			t.Errorf("GenerateRSAKeyPair(%d) error = %v, want ErrUnsupportedKeySize", bits, err)
		}
	}
}

func TestRSAPublicKeyBits(t *testing.T) {
	a, _ := testRSAPairs(t)
	bits, err := RSAPublicKeyBits(a.pub)
	if err != nil {
		t.Fatal(err)
	}
	if bits != 2048 {
		t.Fatalf("bits = %d, want 2048", bits)
	}
	if _, err := RSAPublicKeyBits([]byte("junk")); !errors.Is(err, domain.ErrInvalidPublicKey) {
		t.Fatalf("error = %v, want ErrInvalidPublicKey", err)
	}
}

func TestEncryptRSA_DecryptRSA_RoundTrip(t *testing.T) {
	a, _ := testRSAPairs(t)
	for _, n := range []int{0, 1, 32, OAEPCapacity(2048)} {
		data := bytes.Repeat([]byte{byte(n)}, n)
		ct, err := EncryptRSA(a.pub, 2048, data)
		if err != nil {
			t.Fatalf("EncryptRSA(%d bytes) error = %v", n, err)
		}
		pt, err := DecryptRSA(a.priv, ct)
		if err != nil {
			t.Fatalf("DecryptRSA error = %v", err)
		}
		if !bytes.Equal(pt, data) {
			t.Fatalf("round trip mismatch for %d bytes", n)
		}
	}
}

func TestEncryptRSA_PayloadTooLarge(t *testing.T) {
	a, _ := testRSAPairs(t)
	data := make([]byte, OAEPCapacity(2048)+1)
	if _, err := EncryptRSA(a.pub, 2048, data); !errors.Is(err, domain.ErrPayloadTooLarge) {
		t.Fatalf("error = %v, want ErrPayloadTooLarge", err)
	}
}

func TestEncryptRSA_BitLengthMismatch(t *testing.T) {
	a, _ := testRSAPairs(t)
	if _, err := EncryptRSA(a.pub, 4096, []byte("k")); !errors.Is(err, domain.ErrInvalidPublicKey) {
		t.Fatalf("error = %v, want ErrInvalidPublicKey", err)
	}
}

func TestDecryptRSA_WrongKey(t *testing.T) {
	a, b := testRSAPairs(t)
	ct, err := EncryptRSA(a.pub, 2048, []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecryptRSA(b.priv, ct); !errors.Is(err, domain.ErrDecryption) {
		t.Fatalf("error = %v, want ErrDecryption", err)
	}
	if _, err := DecryptRSA([]byte("not a key"), ct); !errors.Is(err, domain.ErrDecryption) {
		t.Fatalf("error = %v, want ErrDecryption", err)
	}
}

func TestSignVerify(t *testing.T) {
	a, b := testRSAPairs(t)
	data := []byte("signed content")
	sig, err := SignRSA(a.priv, data)
	if err != nil {
		t.Fatalf("SignRSA error = %v", err)
	}
	if !VerifyRSA(a.pub, 2048, sig, data) {
		t.Fatal("valid signature rejected")
	}

	t.Run("every single-bit data mutation", func(t *testing.T) {
		for i := 0; i < len(data)*8; i++ {
			mut := append([]byte(nil), data...)
			mut[i/8] ^= 1 << (i % 8)
			if VerifyRSA(a.pub, 2048, sig, mut) {
				t.Fatalf("mutated bit %d verified", i)
			}
		}
	})
	t.Run("signature mutation", func(t *testing.T) {
		mut := append([]byte(nil), sig...)
		mut[len(mut)/2] ^= 0x10
		if VerifyRSA(a.pub, 2048, mut, data) {
			t.Fatal("mutated signature verified")
		}
	})
	t.Run("mismatched key", func(t *testing.T) {
		if VerifyRSA(b.pub, 2048, sig, data) {
			t.Fatal("signature verified under another key")
		}
	})
	t.Run("wrong bit length", func(t *testing.T) {
		if VerifyRSA(a.pub, 3072, sig, data) {
			t.Fatal("signature verified with wrong bit length")
		}
	})
	t.Run("garbage key", func(t *testing.T) {
		if VerifyRSA([]byte{1, 2, 3}, 2048, sig, data) {
			t.Fatal("signature verified with garbage key")
		}
	})
}

func TestRSAPublicKeyFromPrivate(t *testing.T) {
	a, _ := testRSAPairs(t)
	pub, bits, err := RSAPublicKeyFromPrivate(a.priv)
	if err != nil {
		t.Fatal(err)
	}
	if bits != 2048 || !bytes.Equal(pub, a.pub) {
		t.Fatalf("derived public key differs (bits %d)", bits)
	}
	if _, _, err := RSAPublicKeyFromPrivate([]byte("junk")); err == nil {
		t.Fatal("junk private key accepted")
	}
}
