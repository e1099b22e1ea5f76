package usecase

import (
	"context"

	"shortlink/internal/link/domain"
)

// LinkStore persists links and enforces token uniqueness.
// Once InsertLink succeeds, GetByToken must see the link from every caller.
type LinkStore interface {
	// ExistsByToken reports whether a link already holds the token.
	ExistsByToken(ctx context.Context, token string) (bool, error)
	// InsertLink stores a new link. Returns domain.ErrDuplicateToken when the
	// token is already taken, including when a concurrent writer won the race.
	InsertLink(ctx context.Context, link *domain.Link) (*domain.Link, error)
	// GetByToken returns domain.ErrNotFound for an unknown token.
	GetByToken(ctx context.Context, token string) (*domain.Link, error)
	// GetByID returns domain.ErrNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (*domain.Link, error)
	// ListByOwner returns the owner's links, newest first.
	ListByOwner(ctx context.Context, owner string, limit, offset int) ([]*domain.Link, error)
}

// TokenGenerator produces candidate tokens.
type TokenGenerator interface {
	Generate() (string, error)
}
