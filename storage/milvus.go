package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"videoAnalyze/config"
	"videoAnalyze/core"
	"videoAnalyze/llm"
)

// MilvusStore keeps segment embeddings in a Milvus collection with an HNSW
// cosine index.
type MilvusStore struct {
	mc   client.Client
	llm  llm.Client
	coll string
	dim  int
}

func NewMilvusStore(cfg *config.Config, cli llm.Client) (*MilvusStore, error) {
	mc, err := client.NewClient(context.Background(), client.Config{Address: cfg.MilvusAddr})
	if err != nil {
		return nil, fmt.Errorf("connect milvus: %w", err)
	}

	s := &MilvusStore{mc: mc, llm: cli, coll: cfg.MilvusCollection, dim: 1536}
	if err := s.ensureSchemaAndIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MilvusStore) ensureSchemaAndIndex() error {
	ctx := context.Background()
	has, err := s.mc.HasCollection(ctx, s.coll)
	if err != nil {
		return err
	}
	if !has {
		schema := entity.NewSchema()
		schema.WithField(entity.NewField().WithName("id").WithIsAutoID(true).WithIsPrimaryKey(true).WithDataType(entity.FieldTypeInt64))
		schema.WithField(entity.NewField().WithName("video_id").WithDataType(entity.FieldTypeVarChar).WithMaxLength(128))
		schema.WithField(entity.NewField().WithName("segment_index").WithDataType(entity.FieldTypeInt64))
		schema.WithField(entity.NewField().WithName("start_time").WithDataType(entity.FieldTypeDouble))
		schema.WithField(entity.NewField().WithName("end_time").WithDataType(entity.FieldTypeDouble))
		schema.WithField(entity.NewField().WithName("text").WithDataType(entity.FieldTypeVarChar).WithMaxLength(8192))
		schema.WithField(entity.NewField().WithName("vector").WithDataType(entity.FieldTypeFloatVector).WithDim(int64(s.dim)))

		if err := s.mc.CreateCollection(ctx, schema, int32(2)); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
	}
	idx, err := entity.NewIndexHNSW(entity.COSINE, 8, 200)
	if err != nil {
		return fmt.Errorf("new hnsw index: %w", err)
	}
	if err := s.mc.CreateIndex(ctx, s.coll, "vector", idx, false, client.WithIndexName("idx_vector")); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if err := s.mc.LoadCollection(ctx, s.coll, false); err != nil {
		return fmt.Errorf("load collection: %w", err)
	}
	return nil
}

func (s *MilvusStore) UpsertSegments(ctx context.Context, videoID string, segments []core.Segment) (int, error) {
	if len(segments) == 0 {
		return 0, nil
	}

	videoIDs := make([]string, 0, len(segments))
	indices := make([]int64, 0, len(segments))
	starts := make([]float64, 0, len(segments))
	ends := make([]float64, 0, len(segments))
	texts := make([]string, 0, len(segments))
	vectors := make([][]float32, 0, len(segments))

	for _, seg := range segments {
		v, err := s.llm.Embed(ctx, seg.Text)
		if err != nil {
			return 0, fmt.Errorf("embed segment %d: %w", seg.Index, err)
		}
		videoIDs = append(videoIDs, videoID)
		indices = append(indices, int64(seg.Index))
		starts = append(starts, seg.Start)
		ends = append(ends, seg.End)
		texts = append(texts, seg.Text)
		vectors = append(vectors, v)
	}

	_, err := s.mc.Insert(ctx, s.coll, "",
		entity.NewColumnVarChar("video_id", videoIDs),
		entity.NewColumnInt64("segment_index", indices),
		entity.NewColumnDouble("start_time", starts),
		entity.NewColumnDouble("end_time", ends),
		entity.NewColumnVarChar("text", texts),
		entity.NewColumnFloatVector("vector", s.dim, vectors),
	)
	if err != nil {
		return 0, fmt.Errorf("insert segments: %w", err)
	}
	return len(vectors), nil
}

func (s *MilvusStore) SearchSegments(ctx context.Context, videoID, query string, topK int) ([]core.SegmentHit, error) {
	v, err := s.llm.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if topK <= 0 {
		topK = 5
	}

	sp, _ := entity.NewIndexHNSWSearchParam(74)
	filter := fmt.Sprintf("video_id == \"%s\"", strings.ReplaceAll(videoID, "\"", "\\\""))
	res, err := s.mc.Search(ctx, s.coll, []string{}, filter,
		[]string{"segment_index", "start_time", "end_time", "text"},
		[]entity.Vector{entity.FloatVector(v)}, "vector", entity.COSINE, topK, sp)
	if err != nil {
		return nil, fmt.Errorf("search segments: %w", err)
	}

	var hits []core.SegmentHit
	for _, r := range res {
		cols := map[string]entity.Column{}
		for _, c := range r.Fields {
			cols[c.Name()] = c
		}
		for i := 0; i < r.ResultCount; i++ {
			var hit core.SegmentHit
			if c, ok := cols["segment_index"].(*entity.ColumnInt64); ok {
				if data := c.Data(); i < len(data) {
					hit.Index = int(data[i])
				}
			}
			if c, ok := cols["start_time"].(*entity.ColumnDouble); ok {
				if data := c.Data(); i < len(data) {
					hit.Start = data[i]
				}
			}
			if c, ok := cols["end_time"].(*entity.ColumnDouble); ok {
				if data := c.Data(); i < len(data) {
					hit.End = data[i]
				}
			}
			if c, ok := cols["text"].(*entity.ColumnVarChar); ok {
				if data := c.Data(); i < len(data) {
					hit.Text = data[i]
				}
			}
			hit.Score = float64(r.Scores[i])
			hits = append(hits, hit)
		}
	}
	return hits, nil
}

// Close releases the Milvus connection.
func (s *MilvusStore) Close() error {
	return s.mc.Close()
}
