package cache

import (
	"context"

	"shortlink/internal/link/domain"
	"shortlink/internal/link/usecase"
)

var _ usecase.LinkStore = (*CachedLinkStore)(nil)

// CachedLinkStore wraps a LinkStore and serves GetByToken from the cache.
// Tokens are immutable, so cached entries never go stale. Misses are not
// cached, which keeps a freshly inserted link visible on the next read.
type CachedLinkStore struct {
	store usecase.LinkStore
	cache LinkCache
}

// NewCachedLinkStore creates a new cached store wrapper.
func NewCachedLinkStore(store usecase.LinkStore, cache LinkCache) *CachedLinkStore {
	return &CachedLinkStore{
		store: store,
		cache: cache,
	}
}

// ExistsByToken is not cached so collision checks always hit the store.
func (s *CachedLinkStore) ExistsByToken(ctx context.Context, token string) (bool, error) {
	return s.store.ExistsByToken(ctx, token)
}

// InsertLink persists a link and warms the cache.
func (s *CachedLinkStore) InsertLink(ctx context.Context, link *domain.Link) (*domain.Link, error) {
	stored, err := s.store.InsertLink(ctx, link)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, stored)
	return stored, nil
}

// GetByToken checks the cache first.
func (s *CachedLinkStore) GetByToken(ctx context.Context, token string) (*domain.Link, error) {
	if cached, err := s.cache.Get(ctx, token); err == nil && cached != nil {
		return cached, nil
	}

	link, err := s.store.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, link)
	return link, nil
}

func (s *CachedLinkStore) GetByID(ctx context.Context, id string) (*domain.Link, error) {
	return s.store.GetByID(ctx, id)
}

func (s *CachedLinkStore) ListByOwner(ctx context.Context, owner string, limit, offset int) ([]*domain.Link, error) {
	return s.store.ListByOwner(ctx, owner, limit, offset)
}
