package main

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func TestReplayGenerator_PerLanguage(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "responses/english.md", []byte("## Summary\nEnglish plan"), 0644)
	afero.WriteFile(fs, "responses/hindi.md", []byte("## सारांश\nहिंदी योजना"), 0644)

	gen := NewReplayGenerator(fs, "responses/{lang}.md")
	profile := &FinancialProfile{Name: "Priya"}

	tests := []struct {
		lang Language
		want string
	}{
		{English, "## Summary\nEnglish plan"},
		{Hindi, "## सारांश\nहिंदी योजना"},
	}
	for _, tc := range tests {
		prompt := BuildPrompt(profile, PlanningDirective{}, PromptOptions{Language: tc.lang})
		got, err := gen.Generate(context.Background(), prompt)
		if err != nil {
			t.Fatalf("%s: %v", tc.lang, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.lang, got, tc.want)
		}
	}
}

func TestReplayGenerator_Failures(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "empty.md", []byte("  \n"), 0644)
	prompt := BuildPrompt(&FinancialProfile{Name: "Priya"}, PlanningDirective{}, PromptOptions{Language: English})

	tests := []struct {
		name    string
		path    string
		failure GenerationFailure
	}{
		{"missing file", "missing.md", FailureUnavailable},
		{"empty file", "empty.md", FailureEmpty},
	}
	for _, tc := range tests {
		_, err := NewReplayGenerator(fs, tc.path).Generate(context.Background(), prompt)
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Errorf("%s: expected *GenerationError, got %v", tc.name, err)
			continue
		}
		if genErr.Failure != tc.failure {
			t.Errorf("%s: failure = %s, want %s", tc.name, genErr.Failure, tc.failure)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewReplayGenerator(fs, "empty.md").Generate(ctx, prompt); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context: got %v", err)
	}
}

func TestNewGenerator(t *testing.T) {
	fs := afero.NewMemMapFs()
	ctx := context.Background()

	gen, err := NewGenerator(ctx, GeneratorConfig{Provider: "replay", ReplayFile: "plan.md"}, fs)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if _, ok := gen.(*ReplayGenerator); !ok {
		t.Errorf("expected *ReplayGenerator, got %T", gen)
	}

	if _, err := NewGenerator(ctx, GeneratorConfig{Provider: "replay"}, fs); err == nil {
		t.Error("replay without a file should fail")
	}
	if _, err := NewGenerator(ctx, GeneratorConfig{Provider: "carrier-pigeon"}, fs); err == nil {
		t.Error("unknown provider should fail")
	}
	if _, err := NewGenerator(ctx, GeneratorConfig{Provider: "gemini"}, fs); err == nil {
		t.Error("gemini without an API key should fail")
	}
}

func TestShortMessage(t *testing.T) {
	if got := shortMessage(errors.New("first line\nsecond line")); got != "first line" {
		t.Errorf("shortMessage = %q", got)
	}
}
