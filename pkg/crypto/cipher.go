package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/crudmaker/Bank-REST/internal/errs"
)

// CardCipher encrypts card numbers for storage. The transform is
// deterministic per key (same plaintext and key always produce the same
// ciphertext), which is what allows a uniqueness constraint on the
// encrypted column.
type CardCipher struct {
	block cipher.Block
}

// NewCardCipher creates a CardCipher. The key must be 16, 24 or 32 bytes
// for AES-128/192/256.
func NewCardCipher(key []byte) (*CardCipher, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("encryption key must be 16, 24, or 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return &CardCipher{block: block}, nil
}

// Encrypt encrypts a card number and encodes it as base64
func (c *CardCipher) Encrypt(cardNumber string) (string, error) {
	if cardNumber == "" {
		return "", errs.New(errs.CipherFailure, "cannot encrypt an empty card number")
	}

	// PKCS#7 padding
	data := []byte(cardNumber)
	padding := aes.BlockSize - len(data)%aes.BlockSize
	for i := 0; i < padding; i++ {
		data = append(data, byte(padding))
	}

	ciphertext := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		c.block.Encrypt(ciphertext[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decodes a base64 ciphertext and decrypts it back to the card number
func (c *CardCipher) Decrypt(encrypted string) (string, error) {
	if encrypted == "" {
		return "", errs.New(errs.CipherFailure, "cannot decrypt an empty ciphertext")
	}

	data, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", errs.Wrap(errs.CipherFailure, "failed to decode ciphertext", err)
	}

	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", errs.Newf(errs.CipherFailure, "invalid ciphertext length: %d bytes", len(data))
	}

	plaintext := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		c.block.Decrypt(plaintext[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}

	// Validate and strip PKCS#7 padding
	padding := int(plaintext[len(plaintext)-1])
	if padding == 0 || padding > aes.BlockSize {
		return "", errs.Newf(errs.CipherFailure, "invalid padding value: %d", padding)
	}
	for i := len(plaintext) - padding; i < len(plaintext); i++ {
		if int(plaintext[i]) != padding {
			return "", errs.New(errs.CipherFailure, "corrupted ciphertext padding")
		}
	}

	return string(plaintext[:len(plaintext)-padding]), nil
}
