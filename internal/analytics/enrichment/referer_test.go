package enrichment_test

import (
	"testing"

	"shortlink/internal/analytics/enrichment"

	"github.com/stretchr/testify/assert"
)

func TestRefererClassifier_ClassifySource(t *testing.T) {
	classifier := enrichment.NewRefererClassifier()

	tests := []struct {
		name    string
		referer string
		want    string
	}{
		{name: "empty", referer: "", want: "Direct"},
		{name: "unparseable", referer: "::not a url", want: "Direct"},
		{name: "no host", referer: "/relative/path", want: "Direct"},
		{name: "google", referer: "https://www.google.com/search?q=go", want: "Search"},
		{name: "bing subdomain", referer: "https://cn.bing.com/", want: "Search"},
		{name: "twitter short", referer: "https://t.co/abc", want: "Social"},
		{name: "reddit", referer: "https://old.reddit.com/r/golang", want: "Social"},
		{name: "gemini is AI not search", referer: "https://gemini.google.com/app", want: "AI"},
		{name: "chatgpt", referer: "https://chatgpt.com/", want: "AI"},
		{name: "lookalike domain", referer: "https://notgoogle.com/", want: "Referral"},
		{name: "blog", referer: "https://blog.example.org/post", want: "Referral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.ClassifySource(tt.referer))
		})
	}
}
