package domain

import (
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// MaxURLLength is the longest original URL accepted for shortening.
const MaxURLLength = 2048

// ValidateOriginalURL checks that rawURL is a non-empty absolute http(s) URL.
// The returned error wraps ErrInvalidInput.
func ValidateOriginalURL(rawURL string) error {
	if err := validation.Validate(rawURL,
		validation.Required.Error("url is required"),
		validation.Length(1, MaxURLLength).Error(fmt.Sprintf("url exceeds maximum length of %d characters", MaxURLLength)),
		is.URL.Error("invalid url format"),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return fmt.Errorf("%w: invalid url format", ErrInvalidInput)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: url scheme must be http or https, got: %s", ErrInvalidInput, parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%w: url must have a host", ErrInvalidInput)
	}

	return nil
}
