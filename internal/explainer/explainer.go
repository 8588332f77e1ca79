// Package explainer asks a language model for a short, sectioned
// walkthrough of an analyzed repository.
package explainer

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ziadkadry99/repo-onboarder/internal/analyzer"
	"github.com/ziadkadry99/repo-onboarder/internal/llm"
)

// DefaultTimeout bounds the single completion request.
const DefaultTimeout = 60 * time.Second

// maxPromptKeyFiles limits how many file roles are sent to the model.
const maxPromptKeyFiles = 20

// Sections are the headings the model is asked to answer, in order.
var Sections = []string{
	"What this repo likely does",
	"How to run it",
	"Key moving parts and relations",
	"External systems it touches",
	"Next tasks for a new dev",
}

const systemPrompt = "You help a developer who has just joined a project understand an unfamiliar repository. Answer only from the context given."

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("explainer: empty response")

// Explainer produces the explainer text for a RepoSummary.
type Explainer struct {
	provider  llm.Provider
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *slog.Logger
}

// New returns an Explainer using provider. A zero timeout selects
// DefaultTimeout.
func New(provider llm.Provider, model string, maxTokens int, timeout time.Duration, logger *slog.Logger) *Explainer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Explainer{
		provider:  provider,
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		logger:    logger,
	}
}

// promptContext is the slice of the summary the model sees.
type promptContext struct {
	TechStack       any      `json:"tech_stack"`
	EntryPoints     any      `json:"entrypoints"`
	Routes          any      `json:"routes"`
	ExternalSystems []string `json:"external_systems"`
	FileRoles       any      `json:"file_roles"`
}

// Prompt builds the user prompt for sum.
func Prompt(sum *analyzer.RepoSummary) (string, error) {
	systems := make([]string, 0, len(sum.Systems))
	for _, s := range sum.Systems {
		systems = append(systems, s.Name)
	}
	ctx := promptContext{
		TechStack:       sum.Stack,
		EntryPoints:     sum.EntryPoints,
		Routes:          sum.Routes,
		ExternalSystems: systems,
		FileRoles:       sum.KeyFiles[:min(len(sum.KeyFiles), maxPromptKeyFiles)],
	}
	data, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode prompt context: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this codebase and provide a concise explanation in %d sections:\n\n", len(Sections))
	for i, s := range Sections {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	fmt.Fprintf(&b, "\nContext: %s\n\n", data)
	b.WriteString("Keep each section to 2-3 sentences maximum. Be specific and actionable.\n")
	return b.String(), nil
}

// Explain sends one request and returns the model's text. It does not
// retry.
func (e *Explainer) Explain(ctx context.Context, sum *analyzer.RepoSummary) (string, error) {
	prompt, err := Prompt(sum)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Debug("requesting explainer",
		"provider", e.provider.Name(),
		"prompt_tokens_est", llm.EstimateTokens(systemPrompt)+llm.EstimateTokens(prompt),
		"timeout", e.timeout,
	)

	start := time.Now()
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   e.maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("explainer: %s: %w", e.provider.Name(), err)
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}

	e.logger.Info("explainer complete",
		"provider", e.provider.Name(),
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"cost_usd", llm.EstimateCost(cmp.Or(resp.Model, e.model), resp.InputTokens, resp.OutputTokens),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return text, nil
}

// Fill sets sum.Explainer from e. Any failure is recorded as a warning and
// leaves the explainer empty; the run continues.
func (e *Explainer) Fill(ctx context.Context, sum *analyzer.RepoSummary) {
	text, err := e.Explain(ctx, sum)
	if err != nil {
		e.logger.Warn("explainer unavailable", "error", err)
		sum.Warnings = append(sum.Warnings, fmt.Sprintf("explainer unavailable: %v", err))
		sum.Explainer = ""
		return
	}
	sum.Explainer = text
}
