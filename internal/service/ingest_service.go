package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/cognivest/cognivest/internal/ai"
	"github.com/cognivest/cognivest/internal/model"
	"github.com/cognivest/cognivest/internal/source"
)

// TaskStore is the lifecycle record of an ingestion run. Writes from a
// running ingestion and reads from a polling caller must be mutually
// visible.
type TaskStore interface {
	Create(ctx context.Context, id, message string) error
	Update(ctx context.Context, id string, status model.TaskStatus, message string) error
	Get(ctx context.Context, id string) (*model.Task, error)
}

// VectorStore persists embedded chunks for later ticker-filtered search.
type VectorStore interface {
	Upsert(ctx context.Context, records []model.VectorRecord) error
}

type IngestConfig struct {
	EmbedBatchSize int
	BatchPause     time.Duration
	Workers        int
}

// IngestService drives one ingestion run end to end: fetch documents
// from every source, embed them in bounded batches, persist the valid
// vectors, and keep the task record current at each phase. Runs execute
// on a worker pool so submission never blocks the caller.
type IngestService struct {
	tasks    TaskStore
	vectors  VectorStore
	embedder ai.IEmbedder
	fetchers []source.Fetcher
	pool     *ants.Pool
	cfg      IngestConfig
}

func NewIngestService(tasks TaskStore, vectors VectorStore, embedder ai.IEmbedder, fetchers []source.Fetcher, cfg IngestConfig) (*IngestService, error) {
	if cfg.EmbedBatchSize <= 0 {
		cfg.EmbedBatchSize = 5
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("create ingest pool: %w", err)
	}
	return &IngestService{
		tasks:    tasks,
		vectors:  vectors,
		embedder: embedder,
		fetchers: fetchers,
		pool:     pool,
		cfg:      cfg,
	}, nil
}

func (s *IngestService) Close() {
	s.pool.Release()
}

// Submit records a new pending task and schedules the run. The returned
// task id can be polled immediately.
func (s *IngestService) Submit(ctx context.Context, ticker string) (string, error) {
	taskID := uuid.NewString()
	if err := s.tasks.Create(ctx, taskID, "Task initiated"); err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	err := s.pool.Submit(func() {
		// The run outlives the submitting request.
		s.run(context.Background(), ticker, taskID)
	})
	if err != nil {
		_ = s.tasks.Update(ctx, taskID, model.TaskStatusFailure, fmt.Sprintf("could not schedule run: %v", err))
		return "", fmt.Errorf("schedule ingestion: %w", err)
	}
	return taskID, nil
}

// Status resolves unknown ids to an UNKNOWN record rather than an error.
func (s *IngestService) Status(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return &model.Task{ID: taskID, Status: model.TaskStatusUnknown}, nil
	}
	return task, nil
}

func (s *IngestService) run(ctx context.Context, ticker, taskID string) {
	logger := logutil.GetLogger(ctx).With(zap.String("ticker", ticker), zap.String("task_id", taskID))
	start := time.Now()
	// A panic must still leave the task terminal, not stranded in
	// PROCESSING.
	defer func() {
		if p := recover(); p != nil {
			logger.Error("ingestion run panicked", zap.Any("panic", p), zap.Duration("elapsed", time.Since(start)))
			_ = s.tasks.Update(ctx, taskID, model.TaskStatusFailure, fmt.Sprintf("internal error: %v", p))
		}
	}()
	if err := s.runPipeline(ctx, ticker, taskID); err != nil {
		logger.Error("ingestion run failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		// Vectors persisted before the failure point stay persisted.
		_ = s.tasks.Update(ctx, taskID, model.TaskStatusFailure, err.Error())
		return
	}
	logger.Info("ingestion run finished", zap.Duration("elapsed", time.Since(start)))
}

func (s *IngestService) runPipeline(ctx context.Context, ticker, taskID string) error {
	logger := logutil.GetLogger(ctx).With(zap.String("ticker", ticker), zap.String("task_id", taskID))

	var docs []model.Document
	for _, fetcher := range s.fetchers {
		if err := s.tasks.Update(ctx, taskID, model.TaskStatusProcessing, fmt.Sprintf("Fetching %s...", fetcher.Name())); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		fetched, err := fetcher.Fetch(ctx, ticker)
		if err != nil {
			// One unreachable provider never aborts the run.
			logger.Warn("fetcher failed, continuing without it", zap.String("fetcher", fetcher.Name()), zap.Error(err))
			continue
		}
		logger.Info("fetcher done", zap.String("fetcher", fetcher.Name()), zap.Int("documents", len(fetched)))
		docs = append(docs, fetched...)
	}

	if len(docs) == 0 {
		return s.tasks.Update(ctx, taskID, model.TaskStatusSuccess, "No documents found.")
	}

	if err := s.tasks.Update(ctx, taskID, model.TaskStatusProcessing, fmt.Sprintf("Embedding %d documents...", len(docs))); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	embeddings := s.embedAll(ctx, docs)
	records := make([]model.VectorRecord, 0, len(docs))
	for i, emb := range embeddings {
		if len(emb) == 0 {
			continue
		}
		records = append(records, model.VectorRecord{
			ID:        uuid.NewString(),
			Embedding: emb,
			Text:      docs[i].Content,
			Ticker:    docs[i].Ticker,
			Source:    orUnknown(docs[i].Source),
			Link:      orUnknown(docs[i].Link),
		})
	}

	if len(records) > 0 {
		if err := s.vectors.Upsert(ctx, records); err != nil {
			return fmt.Errorf("persist vectors: %w", err)
		}
	}
	return s.tasks.Update(ctx, taskID, model.TaskStatusSuccess, fmt.Sprintf("Processed %d chunks successfully.", len(records)))
}

// embedAll embeds every document, returning a slice aligned with docs.
// A failed item leaves a nil slot; batches only bound burst load against
// the provider, with a pause between them.
func (s *IngestService) embedAll(ctx context.Context, docs []model.Document) [][]float32 {
	logger := logutil.GetLogger(ctx)
	embeddings := make([][]float32, len(docs))
	batches := (len(docs) + s.cfg.EmbedBatchSize - 1) / s.cfg.EmbedBatchSize
	for start := 0; start < len(docs); start += s.cfg.EmbedBatchSize {
		end := start + s.cfg.EmbedBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		logger.Info("embedding batch", zap.Int("batch", start/s.cfg.EmbedBatchSize+1), zap.Int("total", batches))
		for i := start; i < end; i++ {
			emb, err := s.embedder.Embed(ctx, docs[i].Content, ai.TaskTypeDocument)
			if err != nil {
				logger.Warn("embedding failed, dropping chunk", zap.Int("index", i), zap.Error(err))
				continue
			}
			embeddings[i] = emb
		}
		if s.cfg.BatchPause > 0 && end < len(docs) {
			time.Sleep(s.cfg.BatchPause)
		}
	}
	return embeddings
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
