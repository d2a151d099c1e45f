package rules

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Rules add headers to successful responses, first matching rule only.
type Rules []Rule

// Rule matches requests by method, exact path, path prefix and query
// parameters. An empty Method matches GET and HEAD.
// Default sets Cache-Control unless the resource set one; Override always sets it.
type Rule struct {
	Prefix   string            `yaml:"prefix"`
	Path     string            `yaml:"path"`
	Method   string            `yaml:"method"`
	Default  string            `yaml:"default"`
	Override string            `yaml:"override"`
	Query    map[string]string `yaml:"query"`
	Headers  map[string]string `yaml:"headers"`
}

// Apply adds the headers of the rule matching r to h.
// Only 200 responses are touched.
func (rs Rules) Apply(r *http.Request, statusCode int, h http.Header) {
	if statusCode != http.StatusOK {
		return
	}
	log := zerolog.Ctx(r.Context())
	if rule := rs.find(r); rule != nil {
		log.Trace().Str("path", r.URL.Path).Msgf("Applying header rule %+v", *rule)
		applyRule(*rule, h)
	}
}

func applyRule(rule Rule, h http.Header) {
	if rule.Override != "" {
		h.Set("Cache-Control", rule.Override)
	} else if rule.Default != "" && h.Get("Cache-Control") == "" {
		h.Set("Cache-Control", rule.Default)
	}
	for name, value := range rule.Headers {
		h.Set(name, value)
	}
}

func (rs Rules) find(r *http.Request) *Rule {
	method := r.Method
	if method == http.MethodHead {
		method = http.MethodGet
	}
rulesLoop:
	for _, rule := range rs {
		if rule.Method == "" && method != http.MethodGet {
			continue
		}
		if rule.Method != "" && !strings.EqualFold(rule.Method, method) {
			continue
		}
		if rule.Path != "" && rule.Path != r.URL.Path {
			continue
		}
		if rule.Prefix != "" && !strings.HasPrefix(r.URL.Path, rule.Prefix) {
			continue
		}
		if len(rule.Query) > 0 {
			qry := r.URL.Query()
			for name, value := range rule.Query {
				if value == "" && !qry.Has(name) {
					continue rulesLoop
				} else if value != "" && qry.Get(name) != value {
					continue rulesLoop
				}
			}
		}
		return &rule
	}
	return nil
}
