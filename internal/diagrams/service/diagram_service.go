package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GrahamCHill/diagram-studio/internal/diagrams/domain"
	"github.com/GrahamCHill/diagram-studio/internal/diagrams/repository"
	"github.com/GrahamCHill/diagram-studio/internal/storage/contentcache"
	"github.com/GrahamCHill/diagram-studio/internal/storage/object"
)

const presignTTL = time.Hour

// DiagramService handles diagram-related business logic: metadata rows
// in PostgreSQL, content blobs in object storage, content reads served
// through the cache when possible.
type DiagramService struct {
	repo     *repository.DiagramRepository
	contents *object.Store
	cache    *contentcache.Cache // nil disables caching
}

// NewDiagramService creates a new diagram service.
func NewDiagramService(repo *repository.DiagramRepository, contents *object.Store, cache *contentcache.Cache) *DiagramService {
	return &DiagramService{
		repo:     repo,
		contents: contents,
		cache:    cache,
	}
}

// Create uploads the content and inserts the metadata row.
func (s *DiagramService) Create(ctx context.Context, in domain.DiagramFields) (*domain.Diagram, error) {
	logger := NewLogger(ctx)
	if err := validate(in); err != nil {
		return nil, err
	}

	key, err := s.contents.Upload(ctx, in.Content)
	if err != nil {
		logger.LogError("create_diagram", err)
		return nil, err
	}

	d, err := s.repo.Create(ctx, uuid.New().String(), key, in)
	if err != nil {
		logger.LogError("create_diagram", err)
		return nil, err
	}

	s.attachContentURL(ctx, d)
	logger.LogInfof("create_diagram", "created diagram_id=%s key=%s", d.ID, key)
	return d, nil
}

// List returns diagram summaries, newest first, with presigned content
// URLs. Content itself is never included.
func (s *DiagramService) List(ctx context.Context, limit, offset int) ([]domain.Diagram, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		NewLogger(ctx).LogError("list_diagrams", err)
		return nil, err
	}

	for i := range items {
		s.attachContentURL(ctx, &items[i])
	}
	return items, nil
}

// Get returns one diagram's metadata.
func (s *DiagramService) Get(ctx context.Context, id string) (*domain.Diagram, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachContentURL(ctx, d)
	return d, nil
}

// GetContent returns the diagram source text, from cache when present.
func (s *DiagramService) GetContent(ctx context.Context, id string) (string, error) {
	logger := NewLogger(ctx)

	if s.cache != nil {
		content, hit, err := s.cache.Get(ctx, id)
		if err != nil {
			logger.LogWarnf("get_content", "cache read failed: %v", err)
		} else if hit {
			return content, nil
		}
	}

	key, err := s.repo.StorageKey(ctx, id)
	if err != nil {
		return "", err
	}

	content, err := s.contents.Download(ctx, key)
	if err != nil {
		logger.LogError("get_content", err)
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, id, content); err != nil {
			logger.LogWarnf("get_content", "cache write failed: %v", err)
		}
	}
	return content, nil
}

// Update uploads the new content under a fresh key, removes the old
// object, rewrites the row, and invalidates the cache.
func (s *DiagramService) Update(ctx context.Context, id string, in domain.DiagramFields) (*domain.Diagram, error) {
	logger := NewLogger(ctx)
	if err := validate(in); err != nil {
		return nil, err
	}

	oldKey, err := s.repo.StorageKey(ctx, id)
	if err != nil {
		return nil, err
	}

	key, err := s.contents.Upload(ctx, in.Content)
	if err != nil {
		logger.LogError("update_diagram", err)
		return nil, err
	}

	if err := s.contents.Delete(ctx, oldKey); err != nil {
		logger.LogWarnf("update_diagram", "stale content object left behind: %v", err)
	}

	d, err := s.repo.Update(ctx, id, key, in)
	if err != nil {
		logger.LogError("update_diagram", err)
		return nil, err
	}

	s.invalidate(ctx, id, logger)
	s.attachContentURL(ctx, d)
	logger.LogInfof("update_diagram", "updated diagram_id=%s key=%s", id, key)
	return d, nil
}

// Delete removes the content object, the metadata row, and the cache
// entry.
func (s *DiagramService) Delete(ctx context.Context, id string) error {
	logger := NewLogger(ctx)

	key, err := s.repo.StorageKey(ctx, id)
	if err != nil {
		return err
	}

	if err := s.contents.Delete(ctx, key); err != nil {
		logger.LogWarnf("delete_diagram", "content object not removed: %v", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		logger.LogError("delete_diagram", err)
		return err
	}

	s.invalidate(ctx, id, logger)
	logger.LogInfof("delete_diagram", "deleted diagram_id=%s", id)
	return nil
}

func (s *DiagramService) invalidate(ctx context.Context, id string, logger *Logger) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.LogWarnf("cache", "invalidate failed for diagram_id=%s: %v", id, err)
	}
}

func (s *DiagramService) attachContentURL(ctx context.Context, d *domain.Diagram) {
	url, err := s.contents.PresignedURL(ctx, d.StorageKey, presignTTL)
	if err != nil {
		NewLogger(ctx).LogWarnf("presign", "no content url for diagram_id=%s: %v", d.ID, err)
		return
	}
	d.ContentURL = url
}

func validate(in domain.DiagramFields) error {
	if strings.TrimSpace(in.Title) == "" {
		return &domain.ValidationError{Detail: "Diagram title cannot be empty"}
	}
	if strings.TrimSpace(in.Content) == "" {
		return &domain.ValidationError{Detail: "Diagram content cannot be empty"}
	}
	return nil
}
