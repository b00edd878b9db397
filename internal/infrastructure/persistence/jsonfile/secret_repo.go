package jsonfile

import (
	"context"
	"sync"

	"github.com/bnema/arkium/internal/domain/repository"
)

// SecretsFileName is the secrets document inside the data directory.
const SecretsFileName = "secrets.json"

const secretsPerm = 0o600

type secrets struct {
	OpenAIKey string `json:"openaiKey,omitempty"`
}

type secretRepo struct {
	mu   sync.Mutex
	path string
}

// NewSecretRepository stores the assistant key in an owner-only file.
func NewSecretRepository(path string) repository.SecretRepository {
	return &secretRepo{path: path}
}

// GetAPIKey returns "" without error when nothing is stored.
func (r *secretRepo) GetAPIKey(context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s secrets
	if _, err := readJSON(r.path, &s); err != nil {
		return "", err
	}
	return s.OpenAIKey, nil
}

// SetAPIKey keeps other fields of the document intact.
func (r *secretRepo) SetAPIKey(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := map[string]any{}
	if _, err := readJSON(r.path, &doc); err != nil {
		doc = map[string]any{}
	}
	doc["openaiKey"] = key
	return writeJSON(r.path, doc, secretsPerm)
}
