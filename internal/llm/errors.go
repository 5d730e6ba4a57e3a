// Package llm provides retrying text generation via langchaingo.
package llm

import (
	"errors"
	"net"
	"strings"
)

// ErrDecode indicates the model returned text that could not be decoded as
// the requested structured output. Decode failures are never retried.
var ErrDecode = errors.New("invalid structured output")

// transientMarkers are substrings of provider error messages that indicate a
// failure worth retrying: rate limits, server-side errors, flaky transport.
var transientMarkers = []string{
	"rate limit",
	"rate_limit",
	"too many requests",
	"429",
	"500",
	"502",
	"503",
	"504",
	"overloaded",
	"server error",
	"internal error",
	"connection reset",
	"connection refused",
	"broken pipe",
	"timeout",
	"deadline exceeded",
	"temporarily unavailable",
	"eof",
}

// isTransient reports whether an error is worth retrying with backoff.
// Anything else (auth failures, invalid requests, quota exhaustion) is
// propagated immediately.
func isTransient(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
