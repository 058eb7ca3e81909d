package trials

import (
	"context"
	"errors"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// Generator produces one candidate implementation per call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator generates candidates through an OpenAI-compatible
// chat completion endpoint.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIGenerator builds a generator. baseURL may be empty for the
// default endpoint, or point at any compatible server.
func NewOpenAIGenerator(apiKey, baseURL, model string, temperature float32, maxTokens int) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("API key is not set (OPENAI_API_KEY)")
	}
	if model == "" {
		return nil, errors.New("model is not set")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "Follow the instructions precisely and return only valid Go."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if g.maxTokens > 0 {
		req.MaxCompletionTokens = g.maxTokens
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Scripted replays canned outputs in order; it is the test double for
// the orchestrator. Safe for concurrent use.
type Scripted struct {
	Outputs []string

	mu   sync.Mutex
	next int
}

// Generate returns the next scripted output, repeating the last one
// once the script is exhausted.
func (s *Scripted) Generate(_ context.Context, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Outputs) == 0 {
		return "", errors.New("scripted generator has no outputs")
	}
	i := s.next
	if i >= len(s.Outputs) {
		i = len(s.Outputs) - 1
	}
	s.next++
	return s.Outputs[i], nil
}
