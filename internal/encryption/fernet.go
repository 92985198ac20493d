// Package encryption seals artifacts with Fernet tokens.
//
// Fernet (AES-128-CBC with an HMAC-SHA256 tag) is the format the ingestion
// service decrypts with. Keys are 32 random bytes as URL-safe base64 text.
// Tokens carry a timestamp but are never checked for age.
package encryption

import (
	"fmt"
	"strings"

	"github.com/fernet/fernet-go"
	"github.com/vvka-141/updater/pkg/updater"
)

// noTTL disables the token age check in VerifyAndDecrypt.
const noTTL = -1

// Fernet implements updater.Encryptor with a single key.
type Fernet struct {
	key *fernet.Key
}

// NewFernet parses key and returns an encryptor bound to it.
func NewFernet(key string) (*Fernet, error) {
	k, err := fernet.DecodeKey(strings.TrimSpace(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", updater.ErrInvalidKey, err)
	}
	return &Fernet{key: k}, nil
}

// Encrypt returns a fresh token for plaintext. Two calls with the same
// input produce different tokens.
func (f *Fernet) Encrypt(plaintext []byte) ([]byte, error) {
	tok, err := fernet.EncryptAndSign(plaintext, f.key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt: %w", err)
	}
	return tok, nil
}

// Decrypt verifies and opens a token produced by Encrypt.
func (f *Fernet) Decrypt(token []byte) ([]byte, error) {
	msg := fernet.VerifyAndDecrypt(token, noTTL, []*fernet.Key{f.key})
	if msg == nil {
		return nil, updater.ErrDecryptionFailed
	}
	return msg, nil
}

// Encrypt seals plaintext with key.
func Encrypt(plaintext []byte, key string) ([]byte, error) {
	f, err := NewFernet(key)
	if err != nil {
		return nil, err
	}
	return f.Encrypt(plaintext)
}

// Decrypt opens token with key.
func Decrypt(token []byte, key string) ([]byte, error) {
	f, err := NewFernet(key)
	if err != nil {
		return nil, err
	}
	return f.Decrypt(token)
}

// GenerateKey returns a new random key in its text form.
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return k.Encode(), nil
}

var _ updater.Encryptor = (*Fernet)(nil)
