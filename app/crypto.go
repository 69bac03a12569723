// Package app implements field-level encryption for message content.
package app

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"io"
	"log"
	"strings"
)

// Stored format: hex(iv) + ":" + hex(ciphertext), AES-256-CBC with PKCS#7
// padding. The format is shared with data written by earlier deployments,
// so both sides of it must stay stable.

// encryptContent encrypts clear text for storage. An empty key means the
// deployment runs in clear-text mode; any cipher setup failure also falls
// back to storing the clear text rather than losing the message.
func encryptContent(key []byte, plain string) string {
	if len(key) == 0 {
		return plain
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		log.Printf("encrypt: cipher init failed, storing clear text: %v", err)
		return plain
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		log.Printf("encrypt: iv generation failed, storing clear text: %v", err)
		return plain
	}

	padded := pkcs7Pad([]byte(plain), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext)
}

// decryptContent reverses encryptContent. Anything that does not decrypt
// cleanly (clear-text rows, rows written before the key existed, a rotated
// key) is returned as stored so legacy data stays readable.
func decryptContent(key []byte, stored string) string {
	if len(key) == 0 {
		return stored
	}

	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return stored
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return stored
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return stored
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return stored
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	unpadded, ok := pkcs7Unpad(plain, aes.BlockSize)
	if !ok {
		return stored
	}
	return string(unpadded)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
