package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const openAIChatURL = "https://api.openai.com/v1/chat/completions"

var systemPrompts = map[string]string{
	"en": "You are ArogyaKrishi, an assistant for Indian farmers. Answer questions about crop diseases, symptoms, and treatments in short, practical sentences. Reply in English.",
	"hi": "You are ArogyaKrishi, an assistant for Indian farmers. Answer questions about crop diseases, symptoms, and treatments in short, practical sentences. Reply in Hindi.",
	"te": "You are ArogyaKrishi, an assistant for Indian farmers. Answer questions about crop diseases, symptoms, and treatments in short, practical sentences. Reply in Telugu.",
	"kn": "You are ArogyaKrishi, an assistant for Indian farmers. Answer questions about crop diseases, symptoms, and treatments in short, practical sentences. Reply in Kannada.",
	"ml": "You are ArogyaKrishi, an assistant for Indian farmers. Answer questions about crop diseases, symptoms, and treatments in short, practical sentences. Reply in Malayalam.",
}

// OpenAIResponder generates replies with the OpenAI Chat Completions API.
type OpenAIResponder struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string
}

// NewOpenAIResponder constructs an OpenAIResponder.
func NewOpenAIResponder(apiKey, model string) (*OpenAIResponder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("OPENAI_CHAT_MODEL is required")
	}
	timeout := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &OpenAIResponder{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    openAIChatURL,
	}, nil
}

type chatAPIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatAPIRequest struct {
	Model    string           `json:"model"`
	Messages []chatAPIMessage `json:"messages"`
}

type chatAPIResponse struct {
	Choices []struct {
		Message chatAPIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Reply sends the transcript to the model and returns the reply text.
func (r *OpenAIResponder) Reply(ctx context.Context, history []Message, lang string) (string, error) {
	system, ok := systemPrompts[lang]
	if !ok {
		system = systemPrompts["en"]
	}

	messages := make([]chatAPIMessage, 0, len(history)+1)
	messages = append(messages, chatAPIMessage{Role: "system", Content: system})
	for _, m := range history {
		messages = append(messages, chatAPIMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(chatAPIRequest{Model: r.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call openai: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read openai response: %w", err)
	}

	var parsed chatAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode openai response: status %d: %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK || len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai: status %d with no choices", resp.StatusCode)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
