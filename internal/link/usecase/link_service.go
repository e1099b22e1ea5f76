package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shortlink/internal/link/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds the allocation retry loop.
const DefaultMaxAttempts = 10

// LinkService allocates and resolves short links.
type LinkService struct {
	store       LinkStore
	generator   TokenGenerator
	logger      *zap.Logger
	maxAttempts int
	now         func() time.Time
}

// NewLinkService creates a new link service. A non-positive maxAttempts
// falls back to DefaultMaxAttempts.
func NewLinkService(store LinkStore, generator TokenGenerator, logger *zap.Logger, maxAttempts int) *LinkService {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &LinkService{
		store:       store,
		generator:   generator,
		logger:      logger,
		maxAttempts: maxAttempts,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Allocate stores originalURL under a freshly generated unique token.
//
// The existence check only skips candidates that are obviously taken; the
// store's uniqueness constraint is what makes the insert safe against
// concurrent writers, and a duplicate on insert is retried like any other
// collision.
func (s *LinkService) Allocate(ctx context.Context, originalURL string, owner *string) (*domain.Link, error) {
	if err := domain.ValidateOriginalURL(originalURL); err != nil {
		return nil, err
	}

	if owner != nil && *owner == "" {
		owner = nil
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate, err := s.generator.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}

		exists, err := s.store.ExistsByToken(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if exists {
			s.logger.Debug("token collision on existence check",
				zap.String("token", candidate),
				zap.Int("attempt", attempt),
			)
			continue
		}

		link, err := s.store.InsertLink(ctx, &domain.Link{
			ID:          uuid.NewString(),
			Token:       candidate,
			OriginalURL: originalURL,
			Owner:       owner,
			CreatedAt:   s.now(),
		})
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateToken) {
				s.logger.Debug("token collision on insert",
					zap.String("token", candidate),
					zap.Int("attempt", attempt),
				)
				continue
			}
			return nil, err
		}

		return link, nil
	}

	s.logger.Error("token allocation exhausted",
		zap.Int("max_attempts", s.maxAttempts),
		zap.String("original_url", originalURL),
	)
	return nil, domain.ErrAllocationExhausted
}

// Resolve returns the link stored under token.
func (s *LinkService) Resolve(ctx context.Context, token string) (*domain.Link, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	return s.store.GetByToken(ctx, token)
}

// GetByID returns the link with the given id.
func (s *LinkService) GetByID(ctx context.Context, id string) (*domain.Link, error) {
	return s.store.GetByID(ctx, id)
}

// ListByOwner returns an owner's links, newest first.
func (s *LinkService) ListByOwner(ctx context.Context, owner string, limit, offset int) ([]*domain.Link, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListByOwner(ctx, owner, limit, offset)
}
