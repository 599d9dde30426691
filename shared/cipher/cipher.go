// Package cipher encrypts and decrypts connection secrets at rest.
package cipher

import (
	"crypto/aes"
	cryptocipher "crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// ErrDecryption is returned when a ciphertext cannot be recovered.
var ErrDecryption = errors.New("decryption failed")

const (
	versionPrefix = "v2:"
	hkdfInfo      = "mole connection secrets"
	legacyIVLen   = aes.BlockSize
)

// Cipher seals connection secrets with AES-256-GCM.
type Cipher struct {
	aead      cryptocipher.AEAD
	legacy    bool
	legacyKey []byte
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithLegacyCBC enables decryption of "iv:data" AES-CBC ciphertexts
// exported by earlier installations. Encrypt never produces this format.
func WithLegacyCBC() Option {
	return func(c *Cipher) {
		c.legacy = true
	}
}

// New derives the sealing key from keyMaterial.
func New(keyMaterial string, options ...Option) (*Cipher, error) {
	if keyMaterial == "" {
		return nil, errors.New("cipher: key material is required")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(keyMaterial), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("cipher: derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cryptocipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	c := &Cipher{aead: gcm}
	for _, option := range options {
		option(c)
	}
	if c.legacy {
		c.legacyKey = legacyKey(keyMaterial)
	}
	return c, nil
}

// Encrypt seals plaintext and returns "v2:<hex nonce>:<hex sealed>".
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return versionPrefix + hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

// Decrypt opens a ciphertext produced by Encrypt, or a legacy ciphertext
// when the legacy path is enabled.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	if rest, ok := strings.CutPrefix(ciphertext, versionPrefix); ok {
		return c.decryptGCM(rest)
	}
	if c.legacy {
		return c.decryptLegacy(ciphertext)
	}
	return "", fmt.Errorf("%w: unknown format", ErrDecryption)
}

func (c *Cipher) decryptGCM(payload string) (string, error) {
	nonceHex, sealedHex, ok := strings.Cut(payload, ":")
	if !ok {
		return "", fmt.Errorf("%w: malformed ciphertext", ErrDecryption)
	}

	nonce, err := hex.DecodeString(nonceHex)
	if err != nil || len(nonce) != c.aead.NonceSize() {
		return "", fmt.Errorf("%w: malformed nonce", ErrDecryption)
	}

	sealed, err := hex.DecodeString(sealedHex)
	if err != nil || len(sealed) < c.aead.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryption)
	}

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	return string(plaintext), nil
}

func (c *Cipher) decryptLegacy(ciphertext string) (string, error) {
	ivHex, dataHex, ok := strings.Cut(ciphertext, ":")
	if !ok || len(ivHex) != legacyIVLen*2 {
		return "", fmt.Errorf("%w: malformed legacy ciphertext", ErrDecryption)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", fmt.Errorf("%w: malformed iv", ErrDecryption)
	}
	data, err := hex.DecodeString(dataHex)
	if err != nil || len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: malformed legacy data", ErrDecryption)
	}

	block, err := aes.NewCipher(c.legacyKey)
	if err != nil {
		return "", err
	}

	out := make([]byte, len(data))
	cryptocipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)

	out, err = pkcs7Unpad(out)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// legacyKey reproduces the old key schedule: the first 32 characters of the
// hex-encoded SHA-256 of the key material, used as raw AES-256 key bytes.
func legacyKey(keyMaterial string) []byte {
	sum := sha256.Sum256([]byte(keyMaterial))
	return []byte(hex.EncodeToString(sum[:])[:32])
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecryption)
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecryption)
		}
	}
	return b[:len(b)-n], nil
}
