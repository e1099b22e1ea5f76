package enrichment

import (
	"strings"

	ua "github.com/mileusna/useragent"
)

// ParsedUserAgent is the subset of user-agent data the classifier needs.
type ParsedUserAgent struct {
	BrowserFamily string
	OSFamily      string
	IsMobile      bool
	IsTablet      bool
}

// knownBrowsers are names the parser assigns itself, version or not.
var knownBrowsers = map[string]struct{}{
	ua.Opera: {}, ua.OperaMini: {}, ua.OperaTouch: {}, ua.Chrome: {}, ua.HeadlessChrome: {},
	ua.Firefox: {}, ua.InternetExplorer: {}, ua.Safari: {}, ua.Edge: {}, ua.Vivaldi: {},
	ua.SamsungBrowser: {}, "Android browser": {},
	ua.GoogleAdsBot: {}, ua.Googlebot: {}, ua.Twitterbot: {}, ua.FacebookExternalHit: {},
	ua.Applebot: {}, ua.Bingbot: {}, ua.YandexBot: {}, ua.YandexAdNet: {},
	ua.FacebookApp: {}, ua.InstagramApp: {}, ua.TiktokApp: {},
}

// UserAgentParser extracts browser and OS families and form-factor flags.
type UserAgentParser struct{}

// NewUserAgentParser creates a new UserAgentParser.
func NewUserAgentParser() *UserAgentParser {
	return &UserAgentParser{}
}

// Parse returns the parsed fields of raw. Unrecognized parts stay empty.
func (p *UserAgentParser) Parse(raw string) ParsedUserAgent {
	if strings.TrimSpace(raw) == "" {
		return ParsedUserAgent{}
	}

	parsed := ua.Parse(raw)
	return ParsedUserAgent{
		BrowserFamily: browserFamily(parsed, raw),
		OSFamily:      parsed.OS,
		IsMobile:      parsed.Mobile,
		IsTablet:      parsed.Tablet,
	}
}

// browserFamily drops names the parser fell back to when it recognized
// nothing: the whole header, or a bare token without a version.
func browserFamily(parsed ua.UserAgent, raw string) string {
	name := parsed.Name
	if name == raw || name == strings.TrimSpace(raw) {
		return ""
	}
	if _, ok := knownBrowsers[name]; ok {
		return name
	}
	if parsed.Version == "" {
		return ""
	}
	return name
}
