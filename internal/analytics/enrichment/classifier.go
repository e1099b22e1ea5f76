package enrichment

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"shortlink/internal/analytics/domain"

	"go.uber.org/zap"
)

const (
	// DefaultTestIP stands in for loopback addresses so local development
	// resolves to a real location.
	DefaultTestIP = "8.8.8.8"
	// DefaultLookupTimeout bounds a single geo lookup.
	DefaultLookupTimeout = 5 * time.Second

	localNetworkCountry = "Local Network"
	localNetworkCity    = "Local"
)

// VisitClassifier derives device, browser, OS and location for a visit.
type VisitClassifier struct {
	parser  *UserAgentParser
	geo     GeoLookup
	testIP  string
	timeout time.Duration
	logger  *zap.Logger
}

// ClassifierOption configures a VisitClassifier.
type ClassifierOption func(*VisitClassifier)

// WithTestIP sets the address loopback requests are remapped to.
func WithTestIP(ip string) ClassifierOption {
	return func(c *VisitClassifier) {
		if ip != "" {
			c.testIP = ip
		}
	}
}

// WithLookupTimeout sets the per-lookup timeout.
func WithLookupTimeout(d time.Duration) ClassifierOption {
	return func(c *VisitClassifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewVisitClassifier creates a classifier. A nil geo lookup disables
// geography.
func NewVisitClassifier(parser *UserAgentParser, geo GeoLookup, logger *zap.Logger, opts ...ClassifierOption) *VisitClassifier {
	if geo == nil {
		geo = NoopGeoLookup{}
	}
	c := &VisitClassifier{
		parser:  parser,
		geo:     geo,
		testIP:  DefaultTestIP,
		timeout: DefaultLookupTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify never fails: unknown user-agent parts become "Unknown" and a
// failed geo lookup leaves country and city nil.
func (c *VisitClassifier) Classify(ctx context.Context, userAgentRaw, ipAddress string) domain.Visit {
	parsed := c.parser.Parse(userAgentRaw)

	visit := domain.Visit{
		Browser:    orUnknown(parsed.BrowserFamily),
		OS:         orUnknown(parsed.OSFamily),
		DeviceType: DeviceTypeOf(parsed),
	}
	visit.Country, visit.City = c.locate(ctx, ipAddress)
	return visit
}

// DeviceTypeOf applies Mobile > Tablet > Desktop precedence.
func DeviceTypeOf(p ParsedUserAgent) domain.DeviceType {
	switch {
	case p.IsMobile:
		return domain.DeviceMobile
	case p.IsTablet:
		return domain.DeviceTablet
	default:
		return domain.DeviceDesktop
	}
}

func (c *VisitClassifier) locate(ctx context.Context, ipAddress string) (*string, *string) {
	ip := c.lookupAddress(ipAddress)
	if ip == "" {
		return nil, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	country, city, err := c.geo.Lookup(lookupCtx, ip)
	if err != nil {
		if errors.Is(err, ErrReservedAddress) {
			return domain.StringPtr(localNetworkCountry), domain.StringPtr(localNetworkCity)
		}
		c.logger.Warn("geo lookup failed",
			zap.String("ip", ip),
			zap.Error(err),
		)
		return nil, nil
	}

	return domain.StringPtr(country), domain.StringPtr(city)
}

// lookupAddress returns the address to geo-locate, remapping local forms
// to the test IP.
func (c *VisitClassifier) lookupAddress(ipAddress string) string {
	addr := strings.TrimSpace(ipAddress)
	if addr == "" {
		return ""
	}
	if IsLocalAddress(addr) {
		return c.testIP
	}
	return addr
}

// IsLocalAddress reports whether addr is "localhost" or a loopback or
// link-local IP.
func IsLocalAddress(addr string) bool {
	if strings.EqualFold(addr, "localhost") {
		return true
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsLinkLocalUnicast()
}

func orUnknown(s string) string {
	if s == "" {
		return domain.Unknown
	}
	return s
}
