package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shortlink/internal/link/domain"
	"shortlink/internal/link/usecase"
	"shortlink/internal/testutil/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupService(t *testing.T, maxAttempts int) (*usecase.LinkService, *mocks.MockLinkStore, *mocks.MockTokenGenerator) {
	store := mocks.NewMockLinkStore(t)
	gen := mocks.NewMockTokenGenerator(t)
	return usecase.NewLinkService(store, gen, zap.NewNop(), maxAttempts), store, gen
}

// echoInsert returns the link passed to InsertLink, as a store would.
func echoInsert(_ context.Context, l *domain.Link) (*domain.Link, error) {
	stored := *l
	return &stored, nil
}

func TestAllocate_ValidURL_ReturnsLink(t *testing.T) {
	svc, store, gen := setupService(t, 0)
	ctx := context.Background()

	gen.On("Generate").Return("abc123", nil).Once()
	store.On("ExistsByToken", ctx, "abc123").Return(false, nil).Once()
	store.On("InsertLink", ctx, mock.MatchedBy(func(l *domain.Link) bool {
		return l.Token == "abc123" && l.OriginalURL == "https://example.com" && l.Owner == nil
	})).Return(echoInsert).Once()

	link, err := svc.Allocate(ctx, "https://example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, "abc123", link.Token)
	assert.Equal(t, "https://example.com", link.OriginalURL)
	assert.NotEmpty(t, link.ID)
	assert.False(t, link.CreatedAt.IsZero())
}

func TestAllocate_WithOwner_StoresOwner(t *testing.T) {
	svc, store, gen := setupService(t, 0)
	ctx := context.Background()
	owner := "user-1"

	gen.On("Generate").Return("own123", nil).Once()
	store.On("ExistsByToken", ctx, "own123").Return(false, nil).Once()
	store.On("InsertLink", ctx, mock.MatchedBy(func(l *domain.Link) bool {
		return l.Owner != nil && *l.Owner == owner
	})).Return(echoInsert).Once()

	link, err := svc.Allocate(ctx, "https://example.com", &owner)

	require.NoError(t, err)
	require.NotNil(t, link.Owner)
	assert.Equal(t, owner, *link.Owner)
}

func TestAllocate_EmptyURL_ReturnsInvalidInput(t *testing.T) {
	svc, _, _ := setupService(t, 0)

	link, err := svc.Allocate(context.Background(), "", nil)

	require.Error(t, err)
	assert.Nil(t, link)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAllocate_InvalidScheme_ReturnsInvalidInput(t *testing.T) {
	svc, _, _ := setupService(t, 0)

	_, err := svc.Allocate(context.Background(), "ftp://example.com", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAllocate_ExistingToken_RetriesWithFreshCandidate(t *testing.T) {
	svc, store, gen := setupService(t, 0)
	ctx := context.Background()

	gen.On("Generate").Return("taken1", nil).Once()
	gen.On("Generate").Return("fresh1", nil).Once()
	store.On("ExistsByToken", ctx, "taken1").Return(true, nil).Once()
	store.On("ExistsByToken", ctx, "fresh1").Return(false, nil).Once()
	store.On("InsertLink", ctx, mock.MatchedBy(func(l *domain.Link) bool {
		return l.Token == "fresh1"
	})).Return(echoInsert).Once()

	link, err := svc.Allocate(ctx, "https://example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, "fresh1", link.Token)
}

func TestAllocate_DuplicateOnInsert_RetriesWithFreshCandidate(t *testing.T) {
	svc, store, gen := setupService(t, 0)
	ctx := context.Background()

	// A concurrent writer takes "racy01" between the check and the insert.
	gen.On("Generate").Return("racy01", nil).Once()
	gen.On("Generate").Return("safe01", nil).Once()
	store.On("ExistsByToken", ctx, "racy01").Return(false, nil).Once()
	store.On("ExistsByToken", ctx, "safe01").Return(false, nil).Once()
	store.On("InsertLink", ctx, mock.MatchedBy(func(l *domain.Link) bool {
		return l.Token == "racy01"
	})).Return(nil, domain.ErrDuplicateToken).Once()
	store.On("InsertLink", ctx, mock.MatchedBy(func(l *domain.Link) bool {
		return l.Token == "safe01"
	})).Return(echoInsert).Once()

	link, err := svc.Allocate(ctx, "https://example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, "safe01", link.Token)
}

func TestAllocate_AllAttemptsCollide_ReturnsExhausted(t *testing.T) {
	svc, store, gen := setupService(t, 3)
	ctx := context.Background()

	gen.On("Generate").Return("same01", nil).Times(3)
	store.On("ExistsByToken", ctx, "same01").Return(false, nil).Times(3)
	store.On("InsertLink", ctx, mock.Anything).Return(nil, domain.ErrDuplicateToken).Times(3)

	link, err := svc.Allocate(ctx, "https://example.com", nil)

	require.Error(t, err)
	assert.Nil(t, link)
	assert.True(t, errors.Is(err, domain.ErrAllocationExhausted))
}

func TestAllocate_StoreError_ReturnsError(t *testing.T) {
	svc, store, gen := setupService(t, 0)
	ctx := context.Background()
	dbErr := errors.New("database locked")

	gen.On("Generate").Return("abc123", nil).Once()
	store.On("ExistsByToken", ctx, "abc123").Return(false, nil).Once()
	store.On("InsertLink", ctx, mock.Anything).Return(nil, dbErr).Once()

	_, err := svc.Allocate(ctx, "https://example.com", nil)

	require.Error(t, err)
	assert.Equal(t, dbErr, err)
}

func TestAllocate_GeneratorError_ReturnsError(t *testing.T) {
	svc, _, gen := setupService(t, 0)

	gen.On("Generate").Return("", errors.New("entropy exhausted")).Once()

	_, err := svc.Allocate(context.Background(), "https://example.com", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate token")
}

func TestAllocate_CancelledContext_StopsBeforeGenerating(t *testing.T) {
	svc, _, _ := setupService(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Allocate(ctx, "https://example.com", nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolve_KnownToken_ReturnsLink(t *testing.T) {
	svc, store, _ := setupService(t, 0)
	ctx := context.Background()
	stored := &domain.Link{ID: "id-1", Token: "abc123", OriginalURL: "https://example.com", CreatedAt: time.Now()}

	store.On("GetByToken", ctx, "abc123").Return(stored, nil).Once()

	link, err := svc.Resolve(ctx, "abc123")

	require.NoError(t, err)
	assert.Equal(t, stored, link)
}

func TestResolve_UnknownToken_ReturnsNotFound(t *testing.T) {
	svc, store, _ := setupService(t, 0)
	ctx := context.Background()

	store.On("GetByToken", ctx, "doesNotExist").Return(nil, domain.ErrNotFound).Once()

	_, err := svc.Resolve(ctx, "doesNotExist")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_EmptyToken_ReturnsNotFound(t *testing.T) {
	svc, _, _ := setupService(t, 0)

	_, err := svc.Resolve(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByOwner_ClampsLimit(t *testing.T) {
	svc, store, _ := setupService(t, 0)
	ctx := context.Background()

	store.On("ListByOwner", ctx, "user-1", 20, 0).Return([]*domain.Link{}, nil).Once()

	links, err := svc.ListByOwner(ctx, "user-1", 500, -3)

	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestListByOwner_EmptyOwner_ReturnsInvalidInput(t *testing.T) {
	svc, _, _ := setupService(t, 0)

	_, err := svc.ListByOwner(context.Background(), "", 10, 0)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
