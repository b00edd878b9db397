package sqlite

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

// VaultKeyFileName holds the sealing key next to the vault.
const VaultKeyFileName = "vault.key"

const vaultKeyPerm = 0o600

// ErrBadVaultKey is returned when the key file has the wrong size.
var ErrBadVaultKey = errors.New("vault key has wrong size")

// Sealer encrypts passwords with XChaCha20-Poly1305. The additional data
// binds each ciphertext to its host and username.
type Sealer struct {
	key []byte
}

// NewSealer wraps a 32-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrBadVaultKey
	}
	return &Sealer{key: append([]byte(nil), key...)}, nil
}

// LoadOrCreateSealer reads the key at path, generating it on first run.
func LoadOrCreateSealer(path string) (*Sealer, error) {
	key, err := os.ReadFile(path)
	switch {
	case err == nil:
		return NewSealer(key)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read vault key: %w", err)
	}

	key = make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate vault key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dbDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, vaultKeyPerm)
	if errors.Is(err, fs.ErrExist) {
		// Another process won the race.
		return LoadOrCreateSealer(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create vault key: %w", err)
	}
	if _, err := f.Write(key); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write vault key: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close vault key: %w", err)
	}
	return NewSealer(key)
}

// Seal returns nonce || ciphertext.
func (s *Sealer) Seal(plaintext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, ad), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("sealed value too short")
	}
	nonce, ct := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ct, ad)
}
