package enrichment

import (
	"net/url"
	"strings"
)

// Traffic source labels reported in the source breakdown.
const (
	SourceDirect   = "Direct"
	SourceSearch   = "Search"
	SourceSocial   = "Social"
	SourceAI       = "AI"
	SourceReferral = "Referral"
)

type sourceRule struct {
	source  string
	domains []string
}

// RefererClassifier buckets referer URLs into traffic sources.
type RefererClassifier struct {
	rules []sourceRule
}

// NewRefererClassifier returns a classifier with the built-in domain lists.
// Rules are checked in order, so AI hosts under a search domain
// (gemini.google.com) are reported as AI.
func NewRefererClassifier() *RefererClassifier {
	return &RefererClassifier{rules: []sourceRule{
		{SourceAI, []string{"chatgpt.com", "claude.ai", "gemini.google.com", "perplexity.ai", "copilot.microsoft.com"}},
		{SourceSearch, []string{"google.com", "bing.com", "yahoo.com", "duckduckgo.com", "baidu.com", "yandex.ru", "ecosia.org"}},
		{SourceSocial, []string{
			"facebook.com", "twitter.com", "x.com", "t.co", "instagram.com", "linkedin.com",
			"reddit.com", "tiktok.com", "youtube.com", "threads.net", "pinterest.com", "mastodon.social",
		}},
	}}
}

// ClassifySource maps a referer to one of the Source* labels. A missing or
// host-less referer is Direct; an unmatched host is Referral.
func (r *RefererClassifier) ClassifySource(referer string) string {
	if referer == "" {
		return SourceDirect
	}
	parsed, err := url.Parse(referer)
	if err != nil || parsed.Hostname() == "" {
		return SourceDirect
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	for _, rule := range r.rules {
		if matchesDomain(host, rule.domains) {
			return rule.source
		}
	}
	return SourceReferral
}

// matchesDomain reports whether host is one of domains or a subdomain of one.
func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
