// Package crypto хранит секреты клиента: пароль веб-аккаунта биржи
// (AES-256-GCM) и токен локального API (bcrypt).
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

// KeySize - длина ключа AES-256
const KeySize = 32

// Ошибки шифрования
var (
	ErrInvalidKeyLength   = errors.New("encryption key must be exactly 32 bytes for AES-256")
	ErrInvalidCiphertext  = errors.New("invalid ciphertext")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	ErrDecryptionFailed   = errors.New("decryption failed: authentication error")
)

// newGCM создаёт AEAD по ключу
func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeyLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptSecret шифрует секрет и возвращает base64(nonce || ciphertext || tag)
//
// Результат кладётся в переменную окружения OKCOIN_PASSWORD.
func EncryptSecret(plaintext, key string) (string, error) {
	gcm, err := newGCM([]byte(key))
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptSecret расшифровывает значение, полученное из EncryptSecret
func DecryptSecret(encoded, key string) (string, error) {
	gcm, err := newGCM([]byte(key))
	if err != nil {
		return "", err
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidCiphertext
	}

	nonceSize := gcm.NonceSize()
	if len(sealed) < nonceSize+gcm.Overhead() {
		return "", ErrCiphertextTooShort
	}

	plaintext, err := gcm.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// ValidateKey проверяет длину ключа
func ValidateKey(key string) error {
	if len(key) != KeySize {
		return ErrInvalidKeyLength
	}
	return nil
}
