package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/domain/repository"
	"github.com/bnema/arkium/internal/logging"
)

// APIKeyEnv is consulted before the saved key.
const APIKeyEnv = "OPENAI_API_KEY"

var (
	// ErrAssistantKeyMissing is returned when no key is configured.
	ErrAssistantKeyMissing = errors.New("OPENAI_API_KEY not set")
	// ErrInvalidKey is returned when a key to save is malformed.
	ErrInvalidKey = errors.New("key must start with sk-")
	// ErrEmptyKey is returned when a key to save is blank.
	ErrEmptyKey = errors.New("empty key")
)

// Key sources reported by KeyStatus.
const (
	KeySourceEnv     = "env"
	KeySourceSession = "session"
	KeySourceSaved   = "saved"
)

// KeyStatus describes the configured assistant key without revealing it.
type KeyStatus struct {
	Exists bool   `json:"exists"`
	Last4  string `json:"last4,omitempty"`
	Source string `json:"source,omitempty"`
}

// AssistantUseCase resolves the API key and relays chats upstream.
type AssistantUseCase struct {
	secrets   repository.SecretRepository
	completer port.ChatCompleter
	getenv    func(string) string

	mu      sync.Mutex
	session string
}

// NewAssistantUseCase creates an assistant use case.
func NewAssistantUseCase(secrets repository.SecretRepository, completer port.ChatCompleter) *AssistantUseCase {
	return &AssistantUseCase{
		secrets:   secrets,
		completer: completer,
		getenv:    os.Getenv,
	}
}

// ResolveKey returns the key in effect: the environment first, then a key
// saved during this session, then the stored one.
func (uc *AssistantUseCase) ResolveKey(ctx context.Context) (key, source string, err error) {
	if k := strings.TrimSpace(uc.getenv(APIKeyEnv)); k != "" {
		return k, KeySourceEnv, nil
	}
	uc.mu.Lock()
	session := uc.session
	uc.mu.Unlock()
	if session != "" {
		return session, KeySourceSession, nil
	}
	k, err := uc.secrets.GetAPIKey(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to read saved key")
	}
	if k != "" {
		return k, KeySourceSaved, nil
	}
	return "", "", ErrAssistantKeyMissing
}

// Status reports whether a key is configured.
func (uc *AssistantUseCase) Status(ctx context.Context) KeyStatus {
	k, source, err := uc.ResolveKey(ctx)
	if err != nil {
		return KeyStatus{}
	}
	return KeyStatus{Exists: true, Last4: last4(k), Source: source}
}

// SaveKey validates and stores key. It returns the key's last four characters.
func (uc *AssistantUseCase) SaveKey(ctx context.Context, key string) (string, error) {
	k := strings.TrimSpace(key)
	if k == "" {
		return "", ErrEmptyKey
	}
	if !strings.HasPrefix(k, "sk-") {
		return "", ErrInvalidKey
	}
	if err := uc.secrets.SetAPIKey(ctx, k); err != nil {
		return "", fmt.Errorf("save key: %w", err)
	}
	uc.mu.Lock()
	uc.session = k
	uc.mu.Unlock()
	logging.FromContext(ctx).Info().Str("last4", last4(k)).Msg("assistant key saved")
	return last4(k), nil
}

// TestKey checks key, or the key in effect when key is blank.
func (uc *AssistantUseCase) TestKey(ctx context.Context, key string) error {
	k := strings.TrimSpace(key)
	if k == "" {
		var err error
		if k, _, err = uc.ResolveKey(ctx); err != nil {
			return err
		}
	}
	return uc.completer.Verify(ctx, k)
}

// Ask relays a conversation. Failures are reported in the reply, never retried.
func (uc *AssistantUseCase) Ask(ctx context.Context, id string, messages []port.ChatMessage) port.AssistantReply {
	log := logging.FromContext(ctx)

	k, _, err := uc.ResolveKey(ctx)
	if err != nil {
		return port.AssistantReply{ID: id, Error: err.Error()}
	}

	content, err := uc.completer.Complete(ctx, k, messages)
	if err != nil {
		log.Warn().Err(err).Str("request_id", id).Msg("assistant request failed")
		return port.AssistantReply{ID: id, Error: err.Error()}
	}
	return port.AssistantReply{ID: id, Content: content}
}

func last4(k string) string {
	if len(k) <= 4 {
		return k
	}
	return k[len(k)-4:]
}
