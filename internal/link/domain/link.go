package domain

import "time"

// Link maps a short token to the URL it redirects to.
// Token is unique across all links and never changes once assigned.
type Link struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	OriginalURL string    `json:"original_url"`
	Owner       *string   `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
