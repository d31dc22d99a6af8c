package crypto

import (
	"testing"

	"github.com/crudmaker/Bank-REST/internal/errs"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestCardCipherRoundTrip(t *testing.T) {
	c, err := NewCardCipher(testKey)
	if err != nil {
		t.Fatalf("NewCardCipher: %v", err)
	}

	numbers := []string{
		"4111111111111111",
		"4242424242424242",
		"1234567890123",
		"1234567890123456789",
	}

	for _, number := range numbers {
		encrypted, err := c.Encrypt(number)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", number, err)
		}
		if encrypted == number {
			t.Errorf("ciphertext equals plaintext for %q", number)
		}

		decrypted, err := c.Decrypt(encrypted)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if decrypted != number {
			t.Errorf("round trip: got %q, want %q", decrypted, number)
		}
	}
}

func TestCardCipherDeterministic(t *testing.T) {
	c, err := NewCardCipher(testKey)
	if err != nil {
		t.Fatalf("NewCardCipher: %v", err)
	}

	first, err := c.Encrypt("4111111111111111")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	second, err := c.Encrypt("4111111111111111")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if first != second {
		t.Errorf("same number and key produced different ciphertexts: %q vs %q", first, second)
	}
}

func TestCardCipherKeyLength(t *testing.T) {
	for _, size := range []int{16, 24, 32} {
		if _, err := NewCardCipher(make([]byte, size)); err != nil {
			t.Errorf("key length %d rejected: %v", size, err)
		}
	}

	for _, size := range []int{0, 8, 15, 17, 33} {
		if _, err := NewCardCipher(make([]byte, size)); err == nil {
			t.Errorf("key length %d accepted, want error", size)
		}
	}
}

func TestCardCipherCorruptedCiphertext(t *testing.T) {
	c, err := NewCardCipher(testKey)
	if err != nil {
		t.Fatalf("NewCardCipher: %v", err)
	}

	cases := []string{
		"not base64 !!!",
		"YWJj", // valid base64, not a block multiple
		"",
	}

	for _, input := range cases {
		_, err := c.Decrypt(input)
		if err == nil {
			t.Errorf("Decrypt(%q) succeeded, want error", input)
			continue
		}
		if errs.KindOf(err) != errs.CipherFailure {
			t.Errorf("Decrypt(%q) error kind = %v, want CipherFailure", input, errs.KindOf(err))
		}
	}
}

func TestCardCipherEmptyInput(t *testing.T) {
	c, err := NewCardCipher(testKey)
	if err != nil {
		t.Fatalf("NewCardCipher: %v", err)
	}

	if _, err := c.Encrypt(""); err == nil {
		t.Error("Encrypt of empty input succeeded, want error")
	}
}
