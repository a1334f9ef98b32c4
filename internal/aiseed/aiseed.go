// Package aiseed proposes genetic seed colours with Google Gemini.
//
// Given a text prompt describing a mood or scene, the proposer asks a Gemini
// model for a fixed number of hex colour codes and parses them into RGB
// values suitable for seeding the genetic optimizer's initial population.
package aiseed

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/code-soul/chromapath/internal/colour"
)

const (
	// DefaultModel is the text model used when none is specified.
	DefaultModel = "gemini-2.5-flash"

	// apiKeyEnv names the environment variable holding the Gemini API key.
	apiKeyEnv = "GEMINI_API_KEY"
)

// hexToken matches "#rrggbb" codes in the model reply. The leading hash is
// required so that ordinary six-letter words built from hex digits in the
// surrounding prose are not mistaken for colours.
var hexToken = regexp.MustCompile(`#[0-9a-fA-F]{6}\b`)

// Proposer asks a Gemini model for seed colours matching a text prompt.
type Proposer struct {
	// Model overrides DefaultModel when set.
	Model string
}

// Propose requests count colours matching the prompt and parses the reply.
// It returns exactly count colours or an error; surplus colours in the reply
// are discarded and duplicates are skipped.
func (p Proposer) Propose(ctx context.Context, prompt string, count int) ([]colour.RGB, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("empty prompt: %w", colour.ErrInvalidInput)
	}
	if count < 1 {
		return nil, fmt.Errorf("colour count %d: want at least 1: %w", count, colour.ErrInvalidInput)
	}

	client, err := newClient(ctx)
	if err != nil {
		return nil, err
	}

	model := p.Model
	if model == "" {
		model = DefaultModel
	}

	response, err := client.Models.GenerateContent(ctx, model, genai.Text(buildPrompt(prompt, count)), nil)
	if err != nil {
		return nil, fmt.Errorf("palette generation failed: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content in model response")
	}

	var reply strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		reply.WriteString(part.Text)
	}

	colours, err := ParseColours(reply.String(), count)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", model, err)
	}
	return colours, nil
}

// newClient creates a Gemini API client from the GEMINI_API_KEY environment
// variable.
func newClient(ctx context.Context) (*genai.Client, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable is required\nGet one at: https://aistudio.google.com/api-keys", apiKeyEnv)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}
	return client, nil
}

// buildPrompt wraps the user prompt with instructions that keep the reply
// machine-parseable.
func buildPrompt(prompt string, count int) string {
	return fmt.Sprintf(
		"Propose a colour palette of exactly %d colours matching this description: %s. "+
			"Reply with one colour per line in #rrggbb hex format and nothing else.",
		count, prompt)
}

// ParseColours extracts the first count distinct "#rrggbb" colours from a
// model reply. Prose, markdown fences and repeated colours around the codes
// are tolerated; fewer than count distinct colours is an error.
func ParseColours(reply string, count int) ([]colour.RGB, error) {
	colours := make([]colour.RGB, 0, count)
	seen := make(map[colour.RGB]struct{}, count)
	for _, token := range hexToken.FindAllString(reply, -1) {
		rgb, err := colour.ParseHex(token)
		if err != nil {
			continue
		}
		if _, ok := seen[rgb]; ok {
			continue
		}
		seen[rgb] = struct{}{}
		colours = append(colours, rgb)
		if len(colours) == count {
			return colours, nil
		}
	}
	return nil, fmt.Errorf("reply contains %d distinct colours, want %d: %w", len(colours), count, colour.ErrInvalidInput)
}
