package chat

import "context"

// Responder generates the assistant's next reply given the transcript so
// far. The final message in history is the user's latest turn.
type Responder interface {
	Reply(ctx context.Context, history []Message, lang string) (string, error)
}
