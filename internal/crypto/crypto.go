// Package crypto encrypts argument text at rest with AES-256-CBC.
// Ciphertext and IV travel as hex strings; a fresh IV is generated for
// every encryption.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrInvalidKey     = errors.New("encryption key must be 32 bytes of hex")
	ErrInvalidPadding = errors.New("invalid padding")
)

// Cipher holds the symmetric key shared by all messages.
type Cipher struct {
	key []byte
}

// NewCipher parses a 64-character hex key. Malformed keys are a hard
// failure: the service must not start without a usable key.
func NewCipher(hexKey string) (*Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidKey
	}
	return &Cipher{key: key}, nil
}

// Encrypt returns the hex ciphertext and the hex IV used for this message.
func (c *Cipher) Encrypt(plaintext string) (contentHex, ivHex string, err error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", "", fmt.Errorf("generate iv: %w", err)
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(out), hex.EncodeToString(iv), nil
}

// Decrypt reverses Encrypt given the ciphertext and the original IV.
func (c *Cipher) Decrypt(contentHex, ivHex string) (string, error) {
	ciphertext, err := hex.DecodeString(contentHex)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", fmt.Errorf("decode iv: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return "", fmt.Errorf("iv must be %d bytes", aes.BlockSize)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", errors.New("ciphertext is not a whole number of blocks")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)

	unpadded, err := unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

// pad applies PKCS#7 padding.
func pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad strips and validates PKCS#7 padding.
func unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrInvalidPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, ErrInvalidPadding
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, ErrInvalidPadding
		}
	}
	return b[:len(b)-n], nil
}
