package domain

import (
	"errors"
	"time"
)

// Unknown is the label any missing category folds into.
const Unknown = "Unknown"

// ErrRecord wraps any failure to persist a click event.
var ErrRecord = errors.New("failed to record click")

// DeviceType classifies the visiting client.
type DeviceType string

const (
	DeviceDesktop DeviceType = "Desktop"
	DeviceMobile  DeviceType = "Mobile"
	DeviceTablet  DeviceType = "Tablet"
)

// ClickEvent is one recorded resolution of a token. Append-only.
type ClickEvent struct {
	ID           string     `json:"id"`
	LinkID       string     `json:"link_id"`
	IPAddress    string     `json:"ip_address"`
	UserAgentRaw string     `json:"user_agent"`
	Browser      string     `json:"browser"`
	OS           string     `json:"os"`
	DeviceType   DeviceType `json:"device_type"`
	Country      *string    `json:"country,omitempty"`
	City         *string    `json:"city,omitempty"`
	Referrer     *string    `json:"referrer,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Visit is what the classifier derives from a raw request.
type Visit struct {
	Browser    string
	OS         string
	DeviceType DeviceType
	Country    *string
	City       *string
}

// Summary is the per-link aggregation, recomputed on every query.
type Summary struct {
	LinkID           string         `json:"link_id"`
	TotalClicks      int            `json:"total_clicks"`
	UniqueClicks     int            `json:"unique_clicks"`
	DeviceBreakdown  map[string]int `json:"device_breakdown"`
	BrowserBreakdown map[string]int `json:"browser_breakdown"`
	OSBreakdown      map[string]int `json:"os_breakdown"`
	CountryBreakdown map[string]int `json:"country_breakdown"`
	SourceBreakdown  map[string]int `json:"source_breakdown"`
	RecentClicks     []ClickEvent   `json:"recent_clicks"`
}

// StringPtr returns nil for "" and a pointer to s otherwise.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
