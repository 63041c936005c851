package blobstore

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "faqplus-search-container/en-faqplusqnadata.json", ObjectKey("faqplus-search-container", "en"))
	assert.Equal(t, "faqplus/fr-faqplusqnadata.json", ObjectKey("/faqplus/", "fr"))
	assert.Equal(t, "de-faqplusqnadata.json", ObjectKey("", "de"))
}

func TestProjectionStore_StoreOverwrites(t *testing.T) {
	bucket := memblob.OpenBucket(nil)
	store := NewProjectionStore(bucket, "faqplus-search-container", logger.NewNop())
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	first := []knowledgebase.SearchEntity{{
		LanguageCode: "en",
		ID:           "1",
		Questions:    []string{"reset password"},
		Answer:       "Use the portal",
		CreatedDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		UpdatedDate:  knowledgebase.MinTime,
	}}
	require.NoError(t, store.Store(ctx, "en", first))
	require.NoError(t, store.Store(ctx, "en", first[:0]))

	attrs, err := bucket.Attributes(ctx, "faqplus-search-container/en-faqplusqnadata.json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", attrs.ContentType)

	r, err := bucket.NewReader(ctx, "faqplus-search-container/en-faqplusqnadata.json", nil)
	require.NoError(t, err)
	defer r.Close()
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestProjectionStore_RoundTrip(t *testing.T) {
	store, err := Open(context.Background(), sharedConfig.StorageConfig{BucketURL: "mem://", FolderName: "faq"}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	entities := []knowledgebase.SearchEntity{{
		LanguageCode: "fr",
		ID:           "3",
		Source:       "Editorial",
		Questions:    []string{"mot de passe"},
		Answer:       "Utilisez le portail",
		CreatedDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		UpdatedDate:  time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Metadata:     []knowledgebase.MetadataPair{{Name: "ticketid", Value: "10004"}},
	}}
	require.NoError(t, store.Store(ctx, "fr", entities))

	loaded, err := store.Load(ctx, "fr")
	require.NoError(t, err)
	assert.Equal(t, entities, loaded)

	missing, err := store.Load(ctx, "de")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestProjectionStore_WireFormat(t *testing.T) {
	bucket := memblob.OpenBucket(nil)
	store := NewProjectionStore(bucket, "", logger.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, "en", []knowledgebase.SearchEntity{{LanguageCode: "en", ID: "9", UpdatedDate: knowledgebase.MinTime, CreatedDate: knowledgebase.MinTime}}))

	raw, err := bucket.ReadAll(ctx, "en-faqplusqnadata.json")
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "9", decoded[0]["id"])
	assert.Equal(t, "en", decoded[0]["languageCode"])
	assert.Equal(t, "0001-01-01T00:00:00Z", decoded[0]["createdDate"])
}
