package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// Generator turns an instruction payload into free-text plan markdown.
// Failures are reported as *GenerationError, never as error-prefixed text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// replayLangToken in a replay path is replaced with the lowercase language name
const replayLangToken = "{lang}"

// ReplayGenerator serves saved responses instead of calling a model.
// The language is recovered from the response directive embedded in the prompt.
type ReplayGenerator struct {
	fs   afero.Fs
	path string
}

// NewReplayGenerator reads responses from path; "{lang}" selects a file per language
func NewReplayGenerator(fs afero.Fs, path string) *ReplayGenerator {
	return &ReplayGenerator{fs: fs, path: path}
}

// Generate returns the saved response for the prompt's language
func (g *ReplayGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &GenerationError{Failure: FailureUnavailable, Message: "request cancelled", Err: err}
	}

	lang := promptLanguage(prompt)
	path := strings.ReplaceAll(g.path, replayLangToken, strings.ToLower(lang.String()))

	data, err := afero.ReadFile(g.fs, path)
	if err != nil {
		return "", &GenerationError{Failure: FailureUnavailable, Language: lang, Message: fmt.Sprintf("cannot read %s", path), Err: err}
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", &GenerationError{Failure: FailureEmpty, Language: lang, Message: fmt.Sprintf("%s is empty", path)}
	}
	return text, nil
}

// promptLanguage finds which language's response directive the prompt carries
func promptLanguage(prompt string) Language {
	for _, lang := range AllLanguages {
		if strings.Contains(prompt, languageProfiles[lang].ResponseDirective) {
			return lang
		}
	}
	return English
}

// NewGenerator builds the configured generator
func NewGenerator(ctx context.Context, cfg GeneratorConfig, fs afero.Fs) (Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return NewGeminiGenerator(ctx, cfg)
	case "replay":
		if cfg.ReplayFile == "" {
			return nil, fmt.Errorf("replay generator needs generator.replay_file")
		}
		return NewReplayGenerator(fs, cfg.ReplayFile), nil
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}
}
