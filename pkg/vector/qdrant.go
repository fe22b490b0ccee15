package vector

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/andrew/clickup-rag/pkg/models"
)

// Qdrant connection defaults.
const (
	DefaultQdrantHost = "localhost"
	DefaultQdrantPort = 6334
	DefaultDimension  = 1536
)

// QdrantStore implements Store against a Qdrant server. Each namespace
// maps to one collection, created on demand with cosine distance.
type QdrantStore struct {
	conn        *grpc.ClientConn
	collections qdrant.CollectionsClient
	points      qdrant.PointsClient
	embedder    Embedder
	dimension   int

	// known caches namespaces whose collections were already verified.
	known map[string]bool
}

// NewQdrantStore connects to Qdrant and returns a store that embeds
// documents with the given embedder before upserting.
func NewQdrantStore(cfg Config, embedder Embedder) (*QdrantStore, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultQdrantHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultQdrantPort
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = DefaultDimension
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant at %s: %w", addr, err)
	}

	return &QdrantStore{
		conn:        conn,
		collections: qdrant.NewCollectionsClient(conn),
		points:      qdrant.NewPointsClient(conn),
		embedder:    embedder,
		dimension:   cfg.Dimension,
		known:       make(map[string]bool),
	}, nil
}

// EnsureNamespace creates the namespace's collection if it does not
// exist yet.
func (s *QdrantStore) EnsureNamespace(ctx context.Context, namespace string) error {
	if s.known[namespace] {
		return nil
	}

	list, err := s.collections.List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	exists := false
	for _, col := range list.GetCollections() {
		if col.GetName() == namespace {
			exists = true
			break
		}
	}

	if !exists {
		_, err = s.collections.Create(ctx, &qdrant.CreateCollection{
			CollectionName: namespace,
			VectorsConfig: &qdrant.VectorsConfig{
				Config: &qdrant.VectorsConfig_Params{
					Params: &qdrant.VectorParams{
						Size:     uint64(s.dimension),
						Distance: qdrant.Distance_Cosine,
					},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create collection %s: %w", namespace, err)
		}
	}

	s.known[namespace] = true
	return nil
}

// Upsert embeds each document with non-empty content and upserts
// (id, vector, metadata) into the namespace. A failure on one document
// is recorded and the rest continue; the accumulated errors are
// returned joined so the caller sees every document that was lost.
func (s *QdrantStore) Upsert(ctx context.Context, docs []models.Document, namespace string) error {
	if err := s.EnsureNamespace(ctx, namespace); err != nil {
		return err
	}

	var errs []error
	for _, doc := range docs {
		if doc.Content == "" {
			continue
		}

		docID := DocumentID(doc)
		embedding, err := s.embedder.EmbedText(ctx, doc.Content)
		if err != nil {
			errs = append(errs, fmt.Errorf("embed document %s: %w", docID, err))
			continue
		}

		point := &qdrant.PointStruct{
			Id: &qdrant.PointId{
				PointIdOptions: &qdrant.PointId_Uuid{Uuid: PointID(docID)},
			},
			Vectors: &qdrant.Vectors{
				VectorsOptions: &qdrant.Vectors_Vector{
					Vector: &qdrant.Vector{Data: embedding},
				},
			},
			Payload: toPayload(doc.Metadata),
		}

		_, err = s.points.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: namespace,
			Points:         []*qdrant.PointStruct{point},
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("upsert document %s: %w", docID, err))
		}
	}

	return errors.Join(errs...)
}

// Query runs a filtered similarity search and returns the matches with
// their stored metadata.
func (s *QdrantStore) Query(ctx context.Context, vector []float32, topK int, namespace string, filter *qdrant.Filter) ([]models.Match, error) {
	resp, err := s.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: namespace,
		Vector:         vector,
		Limit:          uint64(topK),
		Filter:         filter,
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search in Qdrant: %w", err)
	}

	matches := make([]models.Match, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		matches = append(matches, models.Match{
			ID:       pointIDString(point.GetId()),
			Score:    point.GetScore(),
			Metadata: fromPayload(point.GetPayload()),
		})
	}
	return matches, nil
}

// Close releases resources used by the vector store
func (s *QdrantStore) Close() error {
	return s.conn.Close()
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

// toPayload converts flat document metadata into Qdrant payload values.
func toPayload(meta models.Metadata) map[string]*qdrant.Value {
	payload := make(map[string]*qdrant.Value, len(meta))
	for k, v := range meta {
		payload[k] = toValue(v)
	}
	return payload
}

func toValue(v any) *qdrant.Value {
	switch val := v.(type) {
	case string:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: val}}
	case bool:
		return &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: val}}
	case int:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(val)}}
	case int32:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(val)}}
	case int64:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: val}}
	case float32:
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: float64(val)}}
	case float64:
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: val}}
	case []string:
		values := make([]*qdrant.Value, len(val))
		for i, s := range val {
			values[i] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: s}}
		}
		return &qdrant.Value{Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{Values: values}}}
	default:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: fmt.Sprintf("%v", val)}}
	}
}

// fromPayload converts Qdrant payload values back into flat metadata.
func fromPayload(payload map[string]*qdrant.Value) models.Metadata {
	meta := make(models.Metadata, len(payload))
	for k, v := range payload {
		meta[k] = fromValue(v)
	}
	return meta
}

func fromValue(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_ListValue:
		var list []string
		for _, item := range kind.ListValue.GetValues() {
			list = append(list, item.GetStringValue())
		}
		return list
	default:
		return ""
	}
}
