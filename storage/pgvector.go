package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"videoAnalyze/config"
	"videoAnalyze/core"
	"videoAnalyze/llm"
)

// PgVectorStore keeps segment embeddings in Postgres with the pgvector
// extension. Embeddings are computed on write through the shared LLM client.
type PgVectorStore struct {
	mu   sync.Mutex // pgx.Conn is not safe for concurrent use
	conn *pgx.Conn
	llm  llm.Client
	dim  int
}

func NewPgVectorStore(cfg *config.Config, cli llm.Client) (*PgVectorStore, error) {
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PgVectorStore{conn: conn, llm: cli, dim: 1536}
	if err := s.ensureTable(ctx); err != nil {
		conn.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *PgVectorStore) ensureTable(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector;"); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS video_segments (
			id SERIAL PRIMARY KEY,
			video_id VARCHAR(255) NOT NULL,
			segment_index INT NOT NULL,
			start_time FLOAT NOT NULL,
			end_time FLOAT NOT NULL,
			text TEXT NOT NULL,
			embedding vector(%d),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(video_id, segment_index)
		);
	`, s.dim)
	if _, err := s.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create video_segments table: %w", err)
	}

	if _, err := s.conn.Exec(ctx,
		"CREATE INDEX IF NOT EXISTS idx_video_segments_video_id ON video_segments(video_id);"); err != nil {
		return fmt.Errorf("create video_id index: %w", err)
	}
	return nil
}

func (s *PgVectorStore) UpsertSegments(ctx context.Context, videoID string, segments []core.Segment) (int, error) {
	count := 0
	for _, seg := range segments {
		vec, err := s.llm.Embed(ctx, seg.Text)
		if err != nil {
			return count, fmt.Errorf("embed segment %d: %w", seg.Index, err)
		}

		s.mu.Lock()
		_, err = s.conn.Exec(ctx, `
			INSERT INTO video_segments (video_id, segment_index, start_time, end_time, text, embedding)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (video_id, segment_index)
			DO UPDATE SET start_time = $3, end_time = $4, text = $5, embedding = $6
		`, videoID, seg.Index, seg.Start, seg.End, seg.Text, pgvector.NewVector(vec))
		s.mu.Unlock()
		if err != nil {
			return count, fmt.Errorf("upsert segment %d: %w", seg.Index, err)
		}
		count++
	}
	return count, nil
}

func (s *PgVectorStore) SearchSegments(ctx context.Context, videoID, query string, topK int) ([]core.SegmentHit, error) {
	vec, err := s.llm.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if topK <= 0 {
		topK = 5
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.conn.Query(ctx, `
		SELECT segment_index, text, start_time, end_time, 1 - (embedding <=> $2) AS score
		FROM video_segments
		WHERE video_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`, videoID, pgvector.NewVector(vec), topK)
	if err != nil {
		return nil, fmt.Errorf("search segments: %w", err)
	}
	defer rows.Close()

	var hits []core.SegmentHit
	for rows.Next() {
		var h core.SegmentHit
		if err := rows.Scan(&h.Index, &h.Text, &h.Start, &h.End, &h.Score); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Close releases the database connection.
func (s *PgVectorStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}
