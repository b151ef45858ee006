package errorreporting

import (
	"fmt"
	"os"
	"regexp"

	"github.com/getsentry/sentry-go"
)

// PII patterns to scrub from error messages. A storefront backend sees
// customer emails and payment-adjacent data, so scrub aggressively.
var piiPatterns = []*regexp.Regexp{
	// Email addresses
	regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_-]{16,}`),
	// API keys and tokens
	regexp.MustCompile(`(?i)(api[_-]?key|token|secret)["\s:=]+[a-zA-Z0-9_-]{16,}`),
	// IP addresses
	regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
	// Credit card numbers (basic pattern)
	regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),
}

var enabled bool

// Init initializes Sentry error reporting. A missing DSN disables reporting
// without error.
func Init(environment string) error {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return nil
	}

	sampleRate := 1.0
	if os.Getenv("ENV") == "production" {
		sampleRate = 0.1 // Sample 10% in production
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          getRelease(),
		TracesSampleRate: sampleRate,
		BeforeSend:       beforeSend,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	enabled = true
	return nil
}

// IsSentryEnabled reports whether Sentry was configured at startup.
func IsSentryEnabled() bool {
	return enabled
}

// getRelease returns the release version from environment or default
func getRelease() string {
	if release := os.Getenv("SENTRY_RELEASE"); release != "" {
		return release
	}
	if version := os.Getenv("SERVICE_VERSION"); version != "" {
		return version
	}
	return "dev"
}

// beforeSend scrubs PII before events leave the process.
func beforeSend(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if event.Exception != nil {
		for i := range event.Exception {
			event.Exception[i].Value = ScrubPII(event.Exception[i].Value)
		}
	}
	if event.Message != "" {
		event.Message = ScrubPII(event.Message)
	}
	return event
}

// ScrubPII replaces anything matching a PII pattern with a redaction marker.
func ScrubPII(s string) string {
	for _, pattern := range piiPatterns {
		s = pattern.ReplaceAllString(s, "[REDACTED]")
	}
	return s
}
