package usecase

import (
	"context"

	"shortlink/internal/analytics/domain"
	linkdomain "shortlink/internal/link/domain"
)

// ClickRepository is the append-only click event log.
type ClickRepository interface {
	// InsertClick appends one click event.
	InsertClick(ctx context.Context, click *domain.ClickEvent) error
	// ListByLinkID returns every click recorded for the link, newest first.
	ListByLinkID(ctx context.Context, linkID string) ([]domain.ClickEvent, error)
}

// LinkLookup resolves the link an analytics query is about.
type LinkLookup interface {
	GetByID(ctx context.Context, id string) (*linkdomain.Link, error)
	GetByToken(ctx context.Context, token string) (*linkdomain.Link, error)
}

// SourceClassifier buckets a referrer into a traffic source label.
type SourceClassifier interface {
	ClassifySource(referrer string) string
}
