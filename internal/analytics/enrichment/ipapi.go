package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultIPAPIURL is the public ip-api.com JSON endpoint.
const DefaultIPAPIURL = "http://ip-api.com/json/"

// IPAPILookup resolves locations through the ip-api.com JSON API.
type IPAPILookup struct {
	baseURL string
	client  *http.Client
}

// NewIPAPILookup creates a lookup against baseURL. An empty baseURL uses
// DefaultIPAPIURL and a nil client uses http.DefaultClient; the caller's
// context carries the deadline.
func NewIPAPILookup(baseURL string, client *http.Client) *IPAPILookup {
	if baseURL == "" {
		baseURL = DefaultIPAPIURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &IPAPILookup{baseURL: baseURL, client: client}
}

type ipAPIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// Lookup queries ip-api for ip.
func (l *IPAPILookup) Lookup(ctx context.Context, ip string) (string, string, error) {
	endpoint := l.baseURL + url.PathEscape(ip) + "?fields=status,message,country,city"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("ip-api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("ip-api returned status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", fmt.Errorf("decode ip-api response: %w", err)
	}

	if body.Status != "success" {
		if body.Message == "reserved range" || body.Message == "private range" {
			return "", "", ErrReservedAddress
		}
		return "", "", fmt.Errorf("ip-api lookup failed: %s", body.Message)
	}

	return body.Country, body.City, nil
}
