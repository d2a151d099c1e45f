package rules

import (
	"net/http"
	"testing"
)

func TestRuleFinder(t *testing.T) {
	makeReq := func(method, path string) *http.Request {
		req, _ := http.NewRequest(method, path, nil)
		return req
	}

	rules := Rules{
		Rule{Prefix: "/static/", Override: "max-age=3600"},
		Rule{Path: "/", Query: map[string]string{"draft": ""}, Override: "no-store"},
		Rule{Method: "POST", Headers: map[string]string{"X-Posted": "yes"}},
		Rule{Override: "default"},
	}

	if rule := rules.find(makeReq("GET", "/")); rule == nil || rule.Override != "default" {
		t.Fatal("Incorrect rule")
	}
	if rule := rules.find(makeReq("HEAD", "/static/app.js")); rule == nil || rule.Override != "max-age=3600" {
		t.Fatal("Incorrect rule")
	}
	if rule := rules.find(makeReq("GET", "/?draft")); rule == nil || rule.Override != "no-store" {
		t.Fatal("Incorrect rule")
	}
	if rule := rules.find(makeReq("POST", "/static/x")); rule == nil || rule.Headers["X-Posted"] != "yes" {
		t.Fatal("Incorrect rule")
	}
	if rule := rules.find(makeReq("DELETE", "/static/x")); rule != nil {
		t.Fatal("Incorrect rule")
	}
}

func TestApplyRule(t *testing.T) {
	h := make(http.Header)
	ruleDefault := Rule{Default: "default"}
	ruleOverride := Rule{Override: "override", Headers: map[string]string{"Vary": "Accept"}}

	// try to apply default
	applyRule(ruleDefault, h)
	if cc := h.Get("Cache-Control"); cc != "default" {
		t.Fatalf("Cache-Control header wrong, is '%s'", cc)
	}

	// change cc and check default is not set
	h.Set("Cache-Control", "no-cache")
	applyRule(ruleDefault, h)
	if cc := h.Get("Cache-Control"); cc != "no-cache" {
		t.Fatalf("Cache-Control header wrong, is '%s'", cc)
	}

	// check that override works
	applyRule(ruleOverride, h)
	if cc := h.Get("Cache-Control"); cc != "override" {
		t.Fatalf("Cache-Control header wrong, is '%s'", cc)
	}
	if h.Get("Vary") != "Accept" {
		t.Fatal("Extra header not set")
	}
}

func TestApplyOnlyOnSuccess(t *testing.T) {
	rules := Rules{Rule{Override: "max-age=60"}}
	req, _ := http.NewRequest("GET", "/", nil)

	h := make(http.Header)
	rules.Apply(req, http.StatusNotFound, h)
	if h.Get("Cache-Control") != "" {
		t.Fatal("Rule applied to error response")
	}
	rules.Apply(req, http.StatusOK, h)
	if h.Get("Cache-Control") != "max-age=60" {
		t.Fatal("Rule not applied")
	}
}
