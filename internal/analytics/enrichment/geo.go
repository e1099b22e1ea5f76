package enrichment

import (
	"context"
	"errors"
)

// ErrReservedAddress is returned by a GeoLookup for private or reserved IPs.
var ErrReservedAddress = errors.New("reserved address range")

// GeoLookup resolves an IP address to a country and city name.
type GeoLookup interface {
	Lookup(ctx context.Context, ip string) (country, city string, err error)
}

// NoopGeoLookup is used when no geo provider is configured. It resolves
// every address to no location.
type NoopGeoLookup struct{}

func (NoopGeoLookup) Lookup(context.Context, string) (string, string, error) {
	return "", "", nil
}
