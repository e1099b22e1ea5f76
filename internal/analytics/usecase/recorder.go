package usecase

import (
	"context"
	"fmt"
	"time"

	"shortlink/internal/analytics/domain"

	"github.com/google/uuid"
)

// Recorder persists click events. Callers on the redirect path treat its
// errors as non-fatal.
type Recorder struct {
	repo ClickRepository
	now  func() time.Time
}

// NewRecorder creates a new click recorder.
func NewRecorder(repo ClickRepository) *Recorder {
	return &Recorder{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Record stores click, assigning an id and timestamp when missing.
// Any failure is returned wrapped in domain.ErrRecord.
func (r *Recorder) Record(ctx context.Context, click *domain.ClickEvent) error {
	if click == nil || click.LinkID == "" {
		return fmt.Errorf("%w: click event has no link id", domain.ErrRecord)
	}
	if click.ID == "" {
		click.ID = uuid.NewString()
	}
	if click.CreatedAt.IsZero() {
		click.CreatedAt = r.now()
	}

	if err := r.repo.InsertClick(ctx, click); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRecord, err)
	}
	return nil
}
