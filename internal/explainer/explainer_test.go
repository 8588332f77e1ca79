package explainer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/repo-onboarder/internal/analyzer"
	"github.com/ziadkadry99/repo-onboarder/internal/integrations"
	"github.com/ziadkadry99/repo-onboarder/internal/llm"
	"github.com/ziadkadry99/repo-onboarder/internal/roles"
)

type fakeProvider struct {
	content string
	err     error
	block   bool
	got     llm.CompletionRequest
	calls   int
}

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	f.got = req
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content, Model: "fake-model", InputTokens: 10, OutputTokens: 5}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func summary() *analyzer.RepoSummary {
	keyFiles := make([]roles.KeyFile, 30)
	for i := range keyFiles {
		keyFiles[i] = roles.KeyFile{Path: fmt.Sprintf("src/file%02d.go", i), Role: roles.GeneralCode}
	}
	return &analyzer.RepoSummary{
		Name:     "demo",
		KeyFiles: keyFiles,
		Systems: []integrations.System{
			{Name: "Redis", Kind: "service"},
			{Name: "Stripe", Kind: "service"},
		},
		Warnings: []string{},
	}
}

func TestPrompt(t *testing.T) {
	p, err := Prompt(summary())
	require.NoError(t, err)

	for i, s := range Sections {
		assert.Contains(t, p, fmt.Sprintf("%d. %s", i+1, s))
	}
	assert.Contains(t, p, `"external_systems": [`)
	assert.Contains(t, p, `"Redis"`)
	assert.Contains(t, p, "src/file19.go")
	assert.NotContains(t, p, "src/file20.go")
}

func TestExplain(t *testing.T) {
	fp := &fakeProvider{content: "  1. It serves an API.\n"}
	e := New(fp, "fake-model", 500, time.Second, nil)

	text, err := e.Explain(context.Background(), summary())
	require.NoError(t, err)
	assert.Equal(t, "1. It serves an API.", text)
	assert.Equal(t, 1, fp.calls)
	assert.Equal(t, 500, fp.got.MaxTokens)
	assert.InDelta(t, 0.2, fp.got.Temperature, 1e-9)
	require.Len(t, fp.got.Messages, 2)
	assert.Equal(t, llm.RoleSystem, fp.got.Messages[0].Role)
	assert.Equal(t, llm.RoleUser, fp.got.Messages[1].Role)
	assert.Contains(t, fp.got.Messages[1].Content, "Next tasks for a new dev")
}

func TestExplain_EmptyResponse(t *testing.T) {
	e := New(&fakeProvider{content: "   "}, "", 100, time.Second, nil)
	_, err := e.Explain(context.Background(), summary())
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestFill(t *testing.T) {
	sum := summary()
	New(&fakeProvider{content: "explained"}, "", 100, time.Second, nil).Fill(context.Background(), sum)
	assert.Equal(t, "explained", sum.Explainer)
	assert.Empty(t, sum.Warnings)
}

func TestFill_ProviderError(t *testing.T) {
	sum := summary()
	fp := &fakeProvider{err: errors.New("boom")}
	New(fp, "", 100, time.Second, nil).Fill(context.Background(), sum)

	assert.Empty(t, sum.Explainer)
	require.Len(t, sum.Warnings, 1)
	assert.True(t, strings.HasPrefix(sum.Warnings[0], "explainer unavailable"))
	assert.Contains(t, sum.Warnings[0], "boom")
	assert.Equal(t, 1, fp.calls, "no retry")
}

func TestFill_Timeout(t *testing.T) {
	sum := summary()
	start := time.Now()
	New(&fakeProvider{block: true}, "", 100, 20*time.Millisecond, nil).Fill(context.Background(), sum)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Empty(t, sum.Explainer)
	require.Len(t, sum.Warnings, 1)
	assert.Contains(t, sum.Warnings[0], context.DeadlineExceeded.Error())
}
