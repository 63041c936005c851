// Package blobstore persists the per-language search projection of each
// knowledge base to object storage.
package blobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

const (
	objectSuffix = "-faqplusqnadata.json"
	contentType  = "application/json"
)

// ProjectionStore writes {folder}/{lang}-faqplusqnadata.json objects.
type ProjectionStore struct {
	bucket *blob.Bucket
	folder string
	logger logger.Interface

	mu               sync.Mutex
	containerEnsured bool
}

// Open opens the bucket named by cfg.BucketURL (azblob://, file://, mem://).
func Open(ctx context.Context, cfg sharedConfig.StorageConfig, logger logger.Interface) (*ProjectionStore, error) {
	bucket, err := blob.OpenBucket(ctx, cfg.BucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %q: %w", cfg.BucketURL, err)
	}
	return NewProjectionStore(bucket, cfg.FolderName, logger), nil
}

func NewProjectionStore(bucket *blob.Bucket, folder string, logger logger.Interface) *ProjectionStore {
	return &ProjectionStore{
		bucket: bucket,
		folder: strings.Trim(folder, "/"),
		logger: logger,
	}
}

// ObjectKey returns the key of a language's projection.
func ObjectKey(folder, languageCode string) string {
	name := languageCode + objectSuffix
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// Store overwrites the language's projection. An empty list is stored as [].
func (s *ProjectionStore) Store(ctx context.Context, languageCode string, entities []knowledgebase.SearchEntity) error {
	if entities == nil {
		entities = []knowledgebase.SearchEntity{}
	}
	payload, err := json.Marshal(entities)
	if err != nil {
		return fmt.Errorf("failed to marshal projection: %w", err)
	}

	if err := s.ensureContainer(ctx); err != nil {
		return err
	}

	key := ObjectKey(s.folder, languageCode)
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to open writer for %s: %w", key, err)
	}
	if _, err := w.Write(payload); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}

	s.logger.Debugw("stored search projection", "key", key, "entities", len(entities))
	return nil
}

// Load reads a language's projection. A missing object yields an empty list.
func (s *ProjectionStore) Load(ctx context.Context, languageCode string) ([]knowledgebase.SearchEntity, error) {
	key := ObjectKey(s.folder, languageCode)
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return []knowledgebase.SearchEntity{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	entities := []knowledgebase.SearchEntity{}
	if err := json.Unmarshal(raw, &entities); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return entities, nil
}

func (s *ProjectionStore) Close() error {
	return s.bucket.Close()
}

// ensureContainer creates the Azure container on first write. Other
// drivers create their namespace on open.
func (s *ProjectionStore) ensureContainer(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.containerEnsured {
		return nil
	}

	var client *container.Client
	if s.bucket.As(&client) {
		if _, err := client.Create(ctx, nil); err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return fmt.Errorf("failed to create container: %w", err)
		}
	}
	s.containerEnsured = true
	return nil
}
