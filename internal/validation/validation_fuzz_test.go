package validation

import (
	"net/url"
	"strings"
	"testing"
)

// FuzzValidateURL checks that every URL ValidateURL accepts parses to an
// allowed scheme and carries no characters browsers reinterpret.
func FuzzValidateURL(f *testing.F) {
	f.Add("http://localhost:8080")
	f.Add("https://example.com")
	f.Add("/relative")
	f.Add("mailto:a@example.com")
	f.Add("javascript:alert('xss')")
	f.Add("data:text/html,<script>alert('xss')</script>")
	f.Add("file:///etc/passwd")
	f.Add("java\tscript:alert(1)")
	f.Add(" javascript:alert(1)")
	f.Add("\\\\evil.com")
	f.Add("http://")
	f.Add("")

	f.Fuzz(func(t *testing.T, testURL string) {
		if len(testURL) > 10000 {
			t.Skip("URL too long")
		}

		if err := ValidateURL(testURL); err != nil {
			if SafeURL(testURL) != "" {
				t.Errorf("SafeURL kept rejected URL %q", testURL)
			}
			return
		}

		parsed, err := url.Parse(testURL)
		if err != nil {
			t.Errorf("ValidateURL passed but url.Parse failed for: %q", testURL)
			return
		}

		if parsed.Scheme != "" && !AllowedSchemes[parsed.Scheme] {
			t.Errorf("ValidateURL passed for scheme %q: %q", parsed.Scheme, testURL)
		}

		if strings.ContainsAny(testURL, "\\\"<>` \t\n\r\x00") {
			t.Errorf("ValidateURL passed for URL with dangerous characters: %q", testURL)
		}

		lower := strings.ToLower(testURL)
		for _, scheme := range []string{"javascript:", "vbscript:", "data:", "file:"} {
			if strings.HasPrefix(lower, scheme) {
				t.Errorf("ValidateURL passed for dangerous protocol: %q", testURL)
			}
		}
	})
}
