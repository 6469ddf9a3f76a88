package chat

import (
	"context"
	"fmt"

	"github.com/harikaa2703/ArogyaKrishi/internal/shared/telemetry"
)

// Service runs chat turns: resolve language, append the user message,
// generate a reply, and append it to the session.
type Service struct {
	Store     *SessionStore
	Responder Responder
	// Fallback answers when the primary responder errors. Nil means the
	// error propagates to the caller.
	Fallback Responder
}

// Turn is the result of one chat exchange.
type Turn struct {
	SessionID string `json:"sessionId"`
	MessageID string `json:"messageId"`
	Reply     string `json:"reply"`
	Language  string `json:"language"`
}

// SendMessage appends the user's message to the session and returns the
// assistant's reply.
func (s *Service) SendMessage(ctx context.Context, sessionID, text, requestedLang string) (Turn, error) {
	lang := ResolveLanguage(requestedLang, text)
	session := s.Store.GetOrCreate(sessionID)

	if _, ok := s.Store.Append(session.ID, RoleUser, text); !ok {
		return Turn{}, fmt.Errorf("session %s vanished", session.ID)
	}

	history := s.Store.History(session.ID)
	reply, err := s.Responder.Reply(ctx, history, lang)
	if err != nil {
		if s.Fallback == nil {
			return Turn{}, fmt.Errorf("generate reply: %w", err)
		}
		telemetry.Warn("chat.responder_failed", map[string]any{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		reply, err = s.Fallback.Reply(ctx, history, lang)
		if err != nil {
			return Turn{}, fmt.Errorf("fallback reply: %w", err)
		}
	}

	msg, ok := s.Store.Append(session.ID, RoleAssistant, reply)
	if !ok {
		return Turn{}, fmt.Errorf("session %s vanished", session.ID)
	}

	return Turn{
		SessionID: session.ID,
		MessageID: msg.ID,
		Reply:     reply,
		Language:  lang,
	}, nil
}
