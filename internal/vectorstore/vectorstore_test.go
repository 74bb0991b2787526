package vectorstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/chronicled/internal/vectorstore"
)

// testEmbedder returns deterministic normalized vectors.
type testEmbedder struct{}

func (testEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = makeEmbedding(text)
	}
	return vectors, nil
}

func (testEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return makeEmbedding(text), nil
}

// makeEmbedding creates a normalized embedding from a text hash, so
// identical texts map to identical vectors.
func makeEmbedding(text string) []float32 {
	const size = 64
	embedding := make([]float32, size)
	hash := 0
	for _, c := range text {
		hash = (hash*31 + int(c)) % 1000
	}
	var sumSq float32
	for i := range embedding {
		embedding[i] = float32((hash+i)%100) / 100.0
		sumSq += embedding[i] * embedding[i]
	}
	norm := float32(1.0) / sqrt32(sumSq)
	for i := range embedding {
		embedding[i] *= norm
	}
	return embedding
}

func sqrt32(x float32) float32 {
	z := x / 2
	for i := 0; i < 10; i++ {
		z = (z + x/z) / 2
	}
	return z
}

func newTestStore(t *testing.T) *vectorstore.ChromemStore {
	t.Helper()
	store, err := vectorstore.NewChromemStore(vectorstore.Config{
		Path:       t.TempDir(),
		Collection: "test_conversations",
	}, testEmbedder{}, nil)
	require.NoError(t, err)
	return store
}

func TestNewChromemStore_RequiresEmbedder(t *testing.T) {
	_, err := vectorstore.NewChromemStore(vectorstore.Config{Path: t.TempDir()}, nil, nil)
	assert.ErrorIs(t, err, vectorstore.ErrInvalidConfig)
}

func TestAddDocuments_Empty(t *testing.T) {
	store := newTestStore(t)
	_, err := store.AddDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, vectorstore.ErrEmptyDocuments)
}

func TestAddDocuments_GeneratesIDs(t *testing.T) {
	store := newTestStore(t)

	ids, err := store.AddDocuments(context.Background(), []vectorstore.Document{
		{Content: "no id on this one"},
		{ID: "conv-1", Content: "explicit id"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.Equal(t, "conv-1", ids[1])
	assert.Equal(t, 2, store.Count())
}

func TestSearch_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddDocuments(ctx, []vectorstore.Document{
		{ID: "a", Content: "the project launch slipped past the deadline", Metadata: map[string]string{"category": "Project Histories"}},
		{ID: "b", Content: "emergency response to the production outage", Metadata: map[string]string{"category": "Crisis Management"}},
	})
	require.NoError(t, err)

	results, err := store.Search(ctx, "the project launch slipped past the deadline", 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 0.001, "identical text embeds identically")
	assert.Equal(t, "Project Histories", results[0].Metadata["category"])
}

func TestSearch_MetadataFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddDocuments(ctx, []vectorstore.Document{
		{ID: "a", Content: "first", Metadata: map[string]string{"agent": "alpha"}},
		{ID: "b", Content: "second", Metadata: map[string]string{"agent": "beta"}},
	})
	require.NoError(t, err)

	results, err := store.Search(ctx, "anything", 1, map[string]string{"agent": "beta"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].ID)
}

func TestSearch_ClampsKToCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddDocuments(ctx, []vectorstore.Document{{ID: "only", Content: "one doc"}})
	require.NoError(t, err)

	results, err := store.Search(ctx, "one doc", 10, nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_MissingCollection(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Search(context.Background(), "anything", 3, nil)
	assert.ErrorIs(t, err, vectorstore.ErrCollectionNotFound)
}

func TestSearch_InvalidArgs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Search(ctx, "", 3, nil)
	assert.Error(t, err)
	_, err = store.Search(ctx, "query", 0, nil)
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddDocuments(ctx, []vectorstore.Document{
		{ID: "a", Content: "first"},
		{ID: "b", Content: "second"},
	})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, []string{"a"}))
	assert.Equal(t, 1, store.Count())

	require.NoError(t, store.Delete(ctx, nil), "empty batch is a no-op")
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := vectorstore.NewChromemStore(vectorstore.Config{Path: dir}, testEmbedder{}, nil)
	require.NoError(t, err)
	_, err = store.AddDocuments(ctx, []vectorstore.Document{{ID: "a", Content: "durable doc"}})
	require.NoError(t, err)

	reopened, err := vectorstore.NewChromemStore(vectorstore.Config{Path: dir}, testEmbedder{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Count())

	results, err := reopened.Search(ctx, "durable doc", 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
}
