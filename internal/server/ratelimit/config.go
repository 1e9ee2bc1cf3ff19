package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// Rule overrides the default rate for requests to one endpoint
type Rule struct {
	Path           string // exact path, or a prefix when it ends in "/"
	Method         string
	RequestsPerSec float64
	Burst          int
}

// Config holds rate limiting configuration
type Config struct {
	Enabled         bool
	RequestsPerSec  float64
	Burst           int
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Exempt          map[string]bool // client IDs that are never limited
	Rules           []Rule
}

// NewConfig builds a limiter config from the server settings. A non-positive
// rate disables limiting.
func NewConfig(requestsPerSec float64, burst int) *Config {
	if requestsPerSec <= 0 {
		return &Config{}
	}
	if burst <= 0 {
		burst = int(requestsPerSec) + 1
	}
	return &Config{
		Enabled:         true,
		RequestsPerSec:  requestsPerSec,
		Burst:           burst,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Rules:           ModelRules(requestsPerSec, burst),
	}
}

// ModelRules gives the endpoints that call the model for every pair a quarter
// of the default rate.
func ModelRules(requestsPerSec float64, burst int) []Rule {
	rps, b := requestsPerSec/4, max(1, burst/4)
	return []Rule{
		{Path: "/match/precise", Method: http.MethodPost, RequestsPerSec: rps, Burst: b},
		{Path: "/match/batch", Method: http.MethodPost, RequestsPerSec: rps, Burst: b},
	}
}

// unlimited is returned for health probes and metric scrapes
var unlimited = &Rule{}

// ruleFor picks the rule for a request: probes are unlimited, then an exact
// path wins over a prefix, and nil means the default rate applies.
func (c *Config) ruleFor(path, method string) *Rule {
	if method == http.MethodGet && (path == "/health" || path == "/metrics") {
		return unlimited
	}

	var prefix *Rule
	for i := range c.Rules {
		r := &c.Rules[i]
		if r.Method != method {
			continue
		}
		if r.Path == path {
			return r
		}
		if prefix == nil && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			prefix = r
		}
	}
	return prefix
}
