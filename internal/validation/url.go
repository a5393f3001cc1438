// Package validation checks document values that end up in rendered markup.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// AllowedSchemes are the URL schemes links and images may use. Relative
// URLs have no scheme and are always allowed.
var AllowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
}

// ValidateURL rejects link and image URLs that could run script or reach
// local resources when rendered: schemes outside AllowedSchemes and
// characters browsers strip or reinterpret before resolving a URL.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty URL")
	}

	for _, r := range rawURL {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("URL contains control character %U", r)
		}
	}

	// Browsers treat '\' like '/' and trim surrounding spaces, which can turn
	// an apparently relative URL into another host or scheme.
	dangerous := []string{"\\", "\"", "<", ">", "`", " "}
	for _, char := range dangerous {
		if strings.Contains(rawURL, char) {
			return fmt.Errorf("URL contains dangerous character: %q", char)
		}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "" && !AllowedSchemes[parsed.Scheme] {
		return fmt.Errorf("invalid URL scheme: %s", parsed.Scheme)
	}

	if (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}

	return nil
}

// SafeURL returns rawURL when it passes ValidateURL and "" otherwise.
func SafeURL(rawURL string) string {
	if ValidateURL(rawURL) != nil {
		return ""
	}
	return rawURL
}
