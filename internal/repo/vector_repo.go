package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/cognivest/cognivest/internal/model"
)

// VectorRepo stores embedded chunks in the pgvector-backed index and
// serves ticker-filtered nearest-neighbor lookups over them. Records are
// append-only; re-ingesting a ticker adds rows, it never replaces them.
type VectorRepo struct {
	db *sqlx.DB
}

func NewVectorRepo(db *sqlx.DB) *VectorRepo {
	return &VectorRepo{db: db}
}

func (r *VectorRepo) Upsert(ctx context.Context, records []model.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	const query = `
		INSERT INTO document_vectors (id, ticker, source, link, content, embedding, ctime)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			ticker = EXCLUDED.ticker,
			source = EXCLUDED.source,
			link = EXCLUDED.link,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			ctime = EXCLUDED.ctime
	`
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	now := time.Now().UnixMilli()
	for _, rec := range records {
		if len(rec.Embedding) == 0 {
			return fmt.Errorf("vector record %s has no embedding", rec.ID)
		}
		if _, err := tx.ExecContext(ctx, query,
			rec.ID, rec.Ticker, rec.Source, rec.Link, rec.Text,
			pgvector.NewVector(rec.Embedding), now,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *VectorRepo) Search(ctx context.Context, embedding []float32, ticker string, topK int) ([]model.SearchHit, error) {
	const query = `
		SELECT content, source, link, embedding <=> $1 AS distance
		FROM document_vectors
		WHERE ticker = $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, pgvector.NewVector(embedding), ticker, topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var hits []model.SearchHit
	for rows.Next() {
		var hit model.SearchHit
		if err := rows.Scan(&hit.Text, &hit.Source, &hit.Link, &hit.Distance); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}
