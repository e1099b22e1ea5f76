package usecase

import (
	"context"

	"shortlink/internal/analytics/domain"

	"github.com/samber/lo"
)

// RecentClicksLimit caps the click list returned alongside a summary.
const RecentClicksLimit = 50

// Aggregator builds analytics summaries from the click log.
type Aggregator struct {
	links   LinkLookup
	clicks  ClickRepository
	sources SourceClassifier
}

// NewAggregator creates a new aggregator.
func NewAggregator(links LinkLookup, clicks ClickRepository, sources SourceClassifier) *Aggregator {
	return &Aggregator{
		links:   links,
		clicks:  clicks,
		sources: sources,
	}
}

// Summarize aggregates every click of the link with the given id.
// Returns linkdomain.ErrNotFound when no such link exists.
func (a *Aggregator) Summarize(ctx context.Context, linkID string) (*domain.Summary, error) {
	link, err := a.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	return a.summarize(ctx, link.ID)
}

// SummarizeByToken is Summarize keyed by the link's short token.
func (a *Aggregator) SummarizeByToken(ctx context.Context, token string) (*domain.Summary, error) {
	link, err := a.links.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return a.summarize(ctx, link.ID)
}

func (a *Aggregator) summarize(ctx context.Context, linkID string) (*domain.Summary, error) {
	clicks, err := a.clicks.ListByLinkID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	summary := Aggregate(clicks, a.sources)
	summary.LinkID = linkID
	return summary, nil
}

// Aggregate computes a summary over clicks. It is a pure function of its
// input: the same clicks always give the same summary.
// A nil sources classifier leaves SourceBreakdown empty.
func Aggregate(clicks []domain.ClickEvent, sources SourceClassifier) *domain.Summary {
	ips := lo.FilterMap(clicks, func(c domain.ClickEvent, _ int) (string, bool) {
		return c.IPAddress, c.IPAddress != ""
	})

	summary := &domain.Summary{
		TotalClicks:  len(clicks),
		UniqueClicks: len(lo.Uniq(ips)),
		DeviceBreakdown: lo.CountValuesBy(clicks, func(c domain.ClickEvent) string {
			return orUnknown(string(c.DeviceType))
		}),
		BrowserBreakdown: lo.CountValuesBy(clicks, func(c domain.ClickEvent) string {
			return orUnknown(c.Browser)
		}),
		OSBreakdown: lo.CountValuesBy(clicks, func(c domain.ClickEvent) string {
			return orUnknown(c.OS)
		}),
		CountryBreakdown: lo.CountValuesBy(clicks, func(c domain.ClickEvent) string {
			return orUnknownPtr(c.Country)
		}),
		SourceBreakdown: map[string]int{},
	}

	if sources != nil {
		summary.SourceBreakdown = lo.CountValuesBy(clicks, func(c domain.ClickEvent) string {
			return sources.ClassifySource(lo.FromPtr(c.Referrer))
		})
	}

	recent := clicks
	if len(recent) > RecentClicksLimit {
		recent = recent[:RecentClicksLimit]
	}
	summary.RecentClicks = append([]domain.ClickEvent{}, recent...)

	return summary
}

func orUnknown(s string) string {
	if s == "" {
		return domain.Unknown
	}
	return s
}

func orUnknownPtr(s *string) string {
	if s == nil {
		return domain.Unknown
	}
	return orUnknown(*s)
}
