package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiGenerator creates a client for the Gemini developer API
func NewGeminiGenerator(ctx context.Context, cfg GeneratorConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("no Gemini API key: set GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	temperature := float32(cfg.Temperature)
	return &GeminiGenerator{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{Temperature: &temperature},
	}, nil
}

// Generate sends one prompt; there is no retry
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", &GenerationError{Failure: FailureUnavailable, Message: shortMessage(err), Err: err}
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		msg := fb.BlockReasonMessage
		if msg == "" {
			msg = "request blocked: " + string(fb.BlockReason)
		}
		return "", &GenerationError{Failure: FailureBlocked, Message: msg}
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", &GenerationError{Failure: FailureBlocked, Message: "response blocked by safety filters"}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &GenerationError{Failure: FailureEmpty, Message: "the model returned no text"}
	}
	return text, nil
}

// shortMessage keeps the first line of an API error for display
func shortMessage(err error) string {
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return strings.TrimSpace(msg)
}
