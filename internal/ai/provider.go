package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnavailable = errors.New("ai provider not configured")

// Embedding task types understood by the providers. Ingestion and query
// embeddings must come from the same embedder instance so both sides of
// the similarity search live in one vector space.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

type IProvider interface {
	Name() string
	Generate(ctx context.Context, model string, prompt string) (string, error)
	Embed(ctx context.Context, model string, text string, taskType string) ([]float32, error)
}

type IGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type IEmbedder interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
	ModelName() string
	Dimension() int
}

// Options bind a provider to concrete models and apply the per-call
// limits the pipeline itself does not enforce.
type Options struct {
	GenerateModel string
	EmbedModel    string
	EmbedDim      int
	Timeout       time.Duration
	MaxInputChars int
}

type generator struct {
	provider IProvider
	model    string
	timeout  time.Duration
	maxChars int
}

func NewGenerator(p IProvider, opts Options) IGenerator {
	return &generator{
		provider: p,
		model:    opts.GenerateModel,
		timeout:  opts.Timeout,
		maxChars: opts.MaxInputChars,
	}
}

func (g *generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.provider.Generate(ctx, g.model, truncate(prompt, g.maxChars))
}

type embedder struct {
	provider IProvider
	model    string
	dim      int
	timeout  time.Duration
	maxChars int
}

func NewEmbedder(p IProvider, opts Options) IEmbedder {
	return &embedder{
		provider: p,
		model:    opts.EmbedModel,
		dim:      opts.EmbedDim,
		timeout:  opts.Timeout,
		maxChars: opts.MaxInputChars,
	}
}

func (e *embedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return e.provider.Embed(ctx, e.model, truncate(text, e.maxChars), taskType)
}

func (e *embedder) ModelName() string {
	return e.model
}

func (e *embedder) Dimension() int {
	return e.dim
}

// truncate caps text at max characters without splitting a rune.
func truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

type ProviderFactory func(args interface{}) (IProvider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("ai provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode ai provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode ai provider config: %w", err)
	}
	return nil
}
