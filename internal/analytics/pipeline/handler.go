package pipeline

import (
	"context"

	"shortlink/internal/analytics/domain"
)

// Classifier derives the analytics dimensions of a visit.
type Classifier interface {
	Classify(ctx context.Context, userAgentRaw, ipAddress string) domain.Visit
}

// ClickRecorder persists a classified click.
type ClickRecorder interface {
	Record(ctx context.Context, click *domain.ClickEvent) error
}

// ClickHandler turns a raw click into a stored ClickEvent.
type ClickHandler struct {
	classifier Classifier
	recorder   ClickRecorder
}

// NewClickHandler creates a new click handler.
func NewClickHandler(classifier Classifier, recorder ClickRecorder) *ClickHandler {
	return &ClickHandler{
		classifier: classifier,
		recorder:   recorder,
	}
}

// Handle classifies click and records it.
func (h *ClickHandler) Handle(ctx context.Context, click *RawClick) error {
	visit := h.classifier.Classify(ctx, click.UserAgent, click.IPAddress)

	event := &domain.ClickEvent{
		LinkID:       click.LinkID,
		IPAddress:    click.IPAddress,
		UserAgentRaw: click.UserAgent,
		Browser:      visit.Browser,
		OS:           visit.OS,
		DeviceType:   visit.DeviceType,
		Country:      visit.Country,
		City:         visit.City,
		Referrer:     domain.StringPtr(click.Referrer),
		CreatedAt:    click.OccurredAt.UTC(),
	}

	return h.recorder.Record(ctx, event)
}
