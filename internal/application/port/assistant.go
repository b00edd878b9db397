package port

import "context"

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompleter talks to an upstream language model.
type ChatCompleter interface {
	// Complete returns the assistant reply for messages using apiKey.
	Complete(ctx context.Context, apiKey string, messages []ChatMessage) (string, error)

	// Verify checks that apiKey is accepted upstream.
	Verify(ctx context.Context, apiKey string) error
}
