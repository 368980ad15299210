package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognivest/cognivest/internal/model"
)

type fakeSearcher struct {
	hits []model.SearchHit
	err  error
}

func (s *fakeSearcher) Search(ctx context.Context, embedding []float32, ticker string, topK int) ([]model.SearchHit, error) {
	return s.hits, s.err
}

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	answer  string
	err     error
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func TestAnswerJoinsContext(t *testing.T) {
	search := &fakeSearcher{hits: []model.SearchHit{
		{Text: "revenue grew 12% year over year"},
		{Text: "guidance was raised for Q4"},
	}}
	gen := &fakeGenerator{answer: "Revenue grew and guidance was raised."}
	svc := NewAnswerService(search, &fakeEmbedder{}, gen, 3)

	answer := svc.Answer(context.Background(), "How is revenue trending?", "ACME")
	assert.Equal(t, "Revenue grew and guidance was raised.", answer)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "revenue grew 12% year over year\n\nguidance was raised for Q4")
	assert.Contains(t, gen.prompts[0], "How is revenue trending?")
}

func TestAnswerNoMatchesStillAnswers(t *testing.T) {
	gen := &fakeGenerator{answer: "I don't know based on the provided context."}
	svc := NewAnswerService(&fakeSearcher{}, &fakeEmbedder{}, gen, 3)

	answer := svc.Answer(context.Background(), "Anything new?", "ACME")
	assert.NotEmpty(t, answer)
	assert.Equal(t, gen.answer, answer)
}

func TestAnswerFallsBackOnEmbedFailure(t *testing.T) {
	embedder := &fakeEmbedder{fail: func(string) bool { return true }}
	svc := NewAnswerService(&fakeSearcher{}, embedder, &fakeGenerator{answer: "unused"}, 3)

	answer := svc.Answer(context.Background(), "Anything new?", "ACME")
	assert.Equal(t, FallbackAnswer, answer)
}

func TestAnswerFallsBackOnSearchFailure(t *testing.T) {
	search := &fakeSearcher{err: errors.New("index offline")}
	svc := NewAnswerService(search, &fakeEmbedder{}, &fakeGenerator{answer: "unused"}, 3)

	answer := svc.Answer(context.Background(), "Anything new?", "ACME")
	assert.Equal(t, FallbackAnswer, answer)
}

func TestAnswerFallsBackOnGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model overloaded")}
	svc := NewAnswerService(&fakeSearcher{}, &fakeEmbedder{}, gen, 3)

	answer := svc.Answer(context.Background(), "Anything new?", "ACME")
	assert.Equal(t, FallbackAnswer, answer)
}

func TestAnswerCachesQueryEmbedding(t *testing.T) {
	embedder := &fakeEmbedder{}
	svc := NewAnswerService(&fakeSearcher{}, embedder, &fakeGenerator{answer: "ok"}, 3)

	svc.Answer(context.Background(), "same question", "ACME")
	svc.Answer(context.Background(), "same question", "ACME")

	embedder.mu.Lock()
	defer embedder.mu.Unlock()
	assert.Equal(t, 1, embedder.calls)
}
