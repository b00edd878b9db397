package repository

import "context"

// SecretRepository holds the assistant API key. An absent key is "",
// never an error.
type SecretRepository interface {
	GetAPIKey(ctx context.Context) (string, error)
	SetAPIKey(ctx context.Context, key string) error
}
