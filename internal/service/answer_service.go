package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/cognivest/cognivest/internal/ai"
	"github.com/cognivest/cognivest/internal/model"
)

// FallbackAnswer is returned whenever embedding, retrieval or generation
// fails; the question boundary always yields an answer string.
const FallbackAnswer = "I'm sorry, I encountered an error while processing your request."

// VectorSearcher is the retrieval half of the vector store contract.
type VectorSearcher interface {
	Search(ctx context.Context, embedding []float32, ticker string, topK int) ([]model.SearchHit, error)
}

// AnswerService answers a question about a ticker by embedding the
// question, pulling the closest stored chunks for that ticker, and
// prompting the generator with them as the only allowed context. The
// embedder is the same instance the ingestion path uses, so query and
// document vectors share one space.
type AnswerService struct {
	search    VectorSearcher
	embedder  ai.IEmbedder
	generator ai.IGenerator
	topK      int
	cache     *expirable.LRU[string, []float32]
}

func NewAnswerService(search VectorSearcher, embedder ai.IEmbedder, generator ai.IGenerator, topK int) *AnswerService {
	if topK <= 0 {
		topK = 5
	}
	return &AnswerService{
		search:    search,
		embedder:  embedder,
		generator: generator,
		topK:      topK,
		cache:     expirable.NewLRU[string, []float32](4096, nil, 30*time.Minute),
	}
}

func (s *AnswerService) Answer(ctx context.Context, question, ticker string) string {
	logger := logutil.GetLogger(ctx).With(zap.String("ticker", ticker))

	queryEmb, err := s.embedQuery(ctx, question)
	if err != nil {
		logger.Error("question embedding failed", zap.Error(err))
		return FallbackAnswer
	}

	hits, err := s.search.Search(ctx, queryEmb, ticker, s.topK)
	if err != nil {
		logger.Error("vector search failed", zap.Error(err))
		return FallbackAnswer
	}
	logger.Info("retrieved context", zap.Int("matches", len(hits)))

	parts := make([]string, 0, len(hits))
	for _, hit := range hits {
		parts = append(parts, hit.Text)
	}
	contextText := strings.Join(parts, "\n\n")

	answer, err := s.generator.Generate(ctx, buildPrompt(contextText, question))
	if err != nil {
		logger.Error("answer generation failed", zap.Error(err))
		return FallbackAnswer
	}
	return answer
}

func (s *AnswerService) embedQuery(ctx context.Context, question string) ([]float32, error) {
	key := s.cacheKey(question)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}
	emb, err := s.embedder.Embed(ctx, question, ai.TaskTypeQuery)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, emb)
	return emb, nil
}

func (s *AnswerService) cacheKey(question string) string {
	sum := sha256.Sum256([]byte(s.embedder.ModelName() + "\x00" + question))
	return hex.EncodeToString(sum[:])
}

func buildPrompt(contextText, question string) string {
	return fmt.Sprintf(`You are a helpful investment assistant for Cognivest.
Use the following context to answer the user's question.
If the answer is not in the context, say you don't know.

Context:
%s

Question:
%s`, contextText, question)
}
