package store

import (
	"context"

	"github.com/qdrant/go-client/qdrant"

	"github.com/randalmurphy/qs/internal/qserr"
)

// CollectionName is the single collection a repository's chunks live in.
const CollectionName = "chunks"

// VectorName is the named vector field chunks are stored under.
const VectorName = "chunks"

// QdrantStore is the default Store, backed by a Qdrant server over gRPC.
type QdrantStore struct {
	client *qdrant.Client
}

var _ Store = (*QdrantStore)(nil)

// NewQdrantStore dials a Qdrant instance at host:port.
func NewQdrantStore(url string) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{Host: url})
	if err != nil {
		return nil, qserr.Wrap(qserr.Storage, err, "connect to qdrant at %s", url)
	}
	return &QdrantStore{client: client}, nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

func (s *QdrantStore) EnsureCollection(ctx context.Context, dimension int) error {
	exists, err := s.client.CollectionExists(ctx, CollectionName)
	if err != nil {
		return qserr.Wrap(qserr.Storage, err, "check collection %s", CollectionName)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: CollectionName,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			VectorName: {
				Size:     uint64(dimension),
				Distance: qdrant.Distance_Cosine,
			},
		}),
	})
	if err != nil {
		return qserr.Wrap(qserr.Storage, err, "create collection %s", CollectionName)
	}
	return nil
}

func (s *QdrantStore) Dimension(ctx context.Context) (int, error) {
	exists, err := s.client.CollectionExists(ctx, CollectionName)
	if err != nil {
		return 0, qserr.Wrap(qserr.Storage, err, "check collection %s", CollectionName)
	}
	if !exists {
		return 0, nil
	}

	info, err := s.client.GetCollectionInfo(ctx, CollectionName)
	if err != nil {
		return 0, qserr.Wrap(qserr.Storage, err, "get collection info %s", CollectionName)
	}

	params := info.GetConfig().GetParams().GetVectorsConfig().GetParamsMap()
	if params == nil {
		return 0, nil
	}
	if vp, ok := params.GetMap()[VectorName]; ok {
		return int(vp.GetSize()), nil
	}
	return 0, nil
}

func (s *QdrantStore) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	pts := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		payload := map[string]interface{}{
			"path":        p.Payload.Path,
			"chunk_index": p.Payload.ChunkIndex,
			"start_line":  p.Payload.StartLine,
			"end_line":    p.Payload.EndLine,
			"text":        p.Payload.Text,
			"file_hash":   p.Payload.FileHash,
			"has_secrets": p.Payload.HasSecrets,
		}

		pts[i] = &qdrant.PointStruct{
			Id: qdrant.NewIDNum(p.ID),
			Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{
				VectorName: qdrant.NewVector(p.Vector...),
			}),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: CollectionName,
		Points:         pts,
	})
	if err != nil {
		return qserr.Wrap(qserr.Storage, err, "upsert %d points", len(points))
	}
	return nil
}

func (s *QdrantStore) Delete(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewIDNum(id)
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: CollectionName,
		Points:         qdrant.NewPointsSelector(pointIDs...),
	})
	if err != nil {
		return qserr.Wrap(qserr.Storage, err, "delete %d points", len(ids))
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit int) ([]SearchResult, error) {
	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: CollectionName,
		Query:          qdrant.NewQuery(vector...),
		Using:          qdrant.PtrOf(VectorName),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, qserr.Wrap(qserr.Storage, err, "search")
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			Score:   r.GetScore(),
			Payload: payloadFrom(r.GetPayload()),
		}
	}
	return out, nil
}

func (s *QdrantStore) Count(ctx context.Context) (uint64, error) {
	exists, err := s.client.CollectionExists(ctx, CollectionName)
	if err != nil {
		return 0, qserr.Wrap(qserr.Storage, err, "check collection %s", CollectionName)
	}
	if !exists {
		return 0, nil
	}

	count, err := s.client.Count(ctx, &qdrant.CountPoints{CollectionName: CollectionName})
	if err != nil {
		return 0, qserr.Wrap(qserr.Storage, err, "count points")
	}
	return count, nil
}

// Flush is a no-op: the gRPC-backed Qdrant server persists each Upsert
// durably once acknowledged, unlike the embedded shard the manifest
// format was originally designed around.
func (s *QdrantStore) Flush(ctx context.Context) error {
	return nil
}

// DeleteCollection drops the backing collection entirely. It exists for
// test cleanup and re-init flows; it is not part of the Store interface
// since ordinary operation never needs to destroy the whole collection.
func (s *QdrantStore) DeleteCollection(ctx context.Context) error {
	err := s.client.DeleteCollection(ctx, CollectionName)
	if err != nil {
		return qserr.Wrap(qserr.Storage, err, "delete collection %s", CollectionName)
	}
	return nil
}

func payloadFrom(payload map[string]*qdrant.Value) ChunkPayload {
	getString := func(key string) string {
		if v, ok := payload[key]; ok {
			return v.GetStringValue()
		}
		return ""
	}
	getInt := func(key string) int {
		if v, ok := payload[key]; ok {
			return int(v.GetIntegerValue())
		}
		return 0
	}
	getBool := func(key string) bool {
		if v, ok := payload[key]; ok {
			return v.GetBoolValue()
		}
		return false
	}

	return ChunkPayload{
		Path:       getString("path"),
		ChunkIndex: getInt("chunk_index"),
		StartLine:  getInt("start_line"),
		EndLine:    getInt("end_line"),
		Text:       getString("text"),
		FileHash:   getString("file_hash"),
		HasSecrets: getBool("has_secrets"),
	}
}
