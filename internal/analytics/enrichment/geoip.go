package enrichment

import (
	"context"
	"fmt"
	"net"

	geoip2 "github.com/oschwald/geoip2-golang"
)

// GeoIPLookup resolves locations from a local MaxMind GeoLite2-City database.
type GeoIPLookup struct {
	db *geoip2.Reader
}

// NewGeoIPLookup opens the database at dbPath.
// Returns error if the database file cannot be opened or is corrupt.
func NewGeoIPLookup(dbPath string) (*GeoIPLookup, error) {
	db, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &GeoIPLookup{db: db}, nil
}

// Close closes the GeoIP database reader.
func (g *GeoIPLookup) Close() error {
	return g.db.Close()
}

// Lookup returns English country and city names for ip.
func (g *GeoIPLookup) Lookup(_ context.Context, ipStr string) (string, string, error) {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "", "", fmt.Errorf("invalid ip address: %q", ipStr)
	}
	if isReserved(ip) {
		return "", "", ErrReservedAddress
	}

	record, err := g.db.City(ip)
	if err != nil {
		return "", "", err
	}

	country := record.Country.Names["en"]
	if country == "" {
		return "", "", fmt.Errorf("no location for %s", ipStr)
	}
	return country, record.City.Names["en"], nil
}

func isReserved(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified() || ip.IsMulticast()
}
