package errors

import (
	"math"
	"net/url"
	"strings"
	"unicode"
)

// MaxDimension bounds rendered canvas sizes. Larger values are almost always
// a typo and would allocate huge PNG buffers.
const MaxDimension = 16384

// ValidateDimensions checks a canvas width and height.
// Both must be finite, positive and at most [MaxDimension].
func ValidateDimensions(width, height float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) {
			return New(ErrCodeInvalidDimension, "%s must be a finite number", d.name)
		}
		if d.v <= 0 {
			return New(ErrCodeInvalidDimension, "%s must be positive (got %g)", d.name, d.v)
		}
		if d.v > MaxDimension {
			return New(ErrCodeInvalidDimension, "%s too large (max %d, got %g)", d.name, MaxDimension, d.v)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL parses and has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must have a host")
	}
	return nil
}

// ValidateAPIKey rejects keys that would corrupt the request header.
// An empty key is valid: the request is then sent without a key header.
func ValidateAPIKey(key string) error {
	if len(key) > 256 {
		return New(ErrCodeInvalidConfig, "API key too long (max 256 characters)")
	}
	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "API key contains whitespace or control characters")
		}
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output path.
// Stdout ("-") is accepted as is.
func ValidateOutputPath(path string) error {
	if path == "" || path == "-" {
		return nil
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}
	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidInput, "output path must name a file, not a directory")
	}
	return nil
}
