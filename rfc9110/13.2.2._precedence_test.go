package rfc9110

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pieterb/rackful/status"
)

var (
	modified = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	earlier  = modified.Add(-time.Hour)
	later    = modified.Add(time.Hour)
)

func conditions(t *testing.T, headers ...string) Conditions {
	t.Helper()
	h := make(http.Header)
	for i := 0; i < len(headers); i += 2 {
		h.Add(headers[i], headers[i+1])
	}
	c, err := ParseConditions(h)
	require.NoError(t, err)
	return c
}

func existing(etag EntityTag, lm *LastModified) State {
	return ValidatorState(true, etag, lm)
}

func TestEvaluate(t *testing.T) {
	weakLM := NewLastModified(modified, false)
	strongLM := NewLastModified(modified, true)

	tests := []struct {
		name    string
		method  string
		state   State
		headers []string
		outcome Outcome
		header  string
	}{
		{"no conditions", "GET", existing(`"a"`, weakLM), nil, Proceed, ""},
		{"no conditions on empty", "PUT", State{}, nil, Proceed, ""},

		{"empty: If-Match", "PUT", State{}, []string{"If-Match", "*"}, PreconditionFailed, "If-Match"},
		{"empty: If-Unmodified-Since", "PUT", State{},
			[]string{"If-Unmodified-Since", ToHttpDate(later)}, PreconditionFailed, "If-Unmodified-Since"},
		{"empty: If-Modified-Since", "GET", State{},
			[]string{"If-Modified-Since", ToHttpDate(earlier)}, NotFound, ""},
		{"empty: If-Match before If-Modified-Since", "GET", State{},
			[]string{"If-Match", `"a"`, "If-Modified-Since", ToHttpDate(earlier)}, PreconditionFailed, "If-Match"},
		{"empty: If-None-Match * allows create", "PUT", State{}, []string{"If-None-Match", "*"}, Proceed, ""},

		{"If-None-Match * on GET", "GET", existing(`"a"`, nil), []string{"If-None-Match", "*"}, NotModified, ""},
		{"If-None-Match * on PUT", "PUT", existing(`"a"`, nil), []string{"If-None-Match", "*"}, PreconditionFailed, "If-None-Match"},
		{"If-None-Match match on HEAD", "HEAD", existing(`"a"`, nil), []string{"If-None-Match", `"b", "a"`}, NotModified, ""},
		{"If-None-Match weak match on GET", "GET", existing(`W/"a"`, nil), []string{"If-None-Match", `"a"`}, NotModified, ""},
		{"If-None-Match no match", "GET", existing(`"a"`, nil), []string{"If-None-Match", `"b"`}, Proceed, ""},

		{"If-Match match", "PUT", existing(`"a"`, nil), []string{"If-Match", `"a"`}, Proceed, ""},
		{"If-Match mismatch", "PUT", existing(`"a"`, nil), []string{"If-Match", `"b"`}, PreconditionFailed, "If-Match"},
		{"If-Match without etag", "PUT", existing("", nil), []string{"If-Match", `"b"`}, PreconditionFailed, "If-Match"},
		{"If-Match * without etag", "DELETE", existing("", nil), []string{"If-Match", `*`}, Proceed, ""},
		{"If-None-Match miss then If-Match mismatch", "PUT", existing(`"a"`, nil),
			[]string{"If-None-Match", `"x"`, "If-Match", `"b"`}, PreconditionFailed, "If-Match"},

		{"If-Unmodified-Since without date", "PUT", existing(`"a"`, nil),
			[]string{"If-Unmodified-Since", ToHttpDate(later)}, PreconditionFailed, "If-Unmodified-Since"},
		{"If-Unmodified-Since before", "PUT", existing("", strongLM),
			[]string{"If-Unmodified-Since", ToHttpDate(earlier)}, PreconditionFailed, "If-Unmodified-Since"},
		{"If-Unmodified-Since after", "PUT", existing("", weakLM),
			[]string{"If-Unmodified-Since", ToHttpDate(later)}, Proceed, ""},
		{"If-Unmodified-Since equal strong", "PUT", existing("", strongLM),
			[]string{"If-Unmodified-Since", ToHttpDate(modified)}, Proceed, ""},
		{"If-Unmodified-Since equal weak on PUT", "PUT", existing("", weakLM),
			[]string{"If-Unmodified-Since", ToHttpDate(modified)}, PreconditionFailed, "If-Unmodified-Since"},
		{"If-Unmodified-Since equal weak on GET", "GET", existing("", weakLM),
			[]string{"If-Unmodified-Since", ToHttpDate(modified)}, Proceed, ""},
		{"If-Unmodified-Since shadows If-Modified-Since", "GET", existing("", weakLM),
			[]string{"If-Unmodified-Since", ToHttpDate(later), "If-Modified-Since", ToHttpDate(later)}, Proceed, ""},

		{"If-Modified-Since without date", "GET", existing(`"a"`, nil),
			[]string{"If-Modified-Since", ToHttpDate(earlier)}, NotModified, ""},
		{"If-Modified-Since later", "GET", existing("", weakLM),
			[]string{"If-Modified-Since", ToHttpDate(later)}, NotModified, ""},
		{"If-Modified-Since earlier", "GET", existing("", weakLM),
			[]string{"If-Modified-Since", ToHttpDate(earlier)}, Proceed, ""},
		{"If-Modified-Since equal weak on GET", "GET", existing("", weakLM),
			[]string{"If-Modified-Since", ToHttpDate(modified)}, NotModified, ""},
		{"If-Modified-Since equal weak on PUT", "PUT", existing("", weakLM),
			[]string{"If-Modified-Since", ToHttpDate(modified)}, PreconditionFailed, "If-Modified-Since"},
		{"If-Modified-Since equal strong on PUT", "PUT", existing("", strongLM),
			[]string{"If-Modified-Since", ToHttpDate(modified)}, NotModified, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Evaluate(conditions(t, tt.headers...), tt.state, tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, d.Outcome)
			assert.Equal(t, tt.header, d.Header)
		})
	}
}

func TestEvaluateSubsecondModification(t *testing.T) {
	lm := &LastModified{Time: modified.Add(300 * time.Millisecond), Strong: true}
	d, err := Evaluate(conditions(t, "If-Modified-Since", ToHttpDate(modified)), existing("", lm), "GET")
	require.NoError(t, err)
	assert.Equal(t, NotModified, d.Outcome)
}

func TestEvaluateWeakComparisonError(t *testing.T) {
	_, err := Evaluate(conditions(t, "If-Match", `"a"`), existing(`W/"a"`, nil), "PUT")
	assert.ErrorIs(t, err, status.ErrWeakComparison)

	_, err = Evaluate(conditions(t, "If-None-Match", `W/"a"`), existing(`"a"`, nil), "DELETE")
	assert.ErrorIs(t, err, status.ErrWeakComparison)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	c := conditions(t, "If-None-Match", `"x"`, "If-Modified-Since", ToHttpDate(earlier))
	s := existing(`"a"`, NewLastModified(modified, false))
	first, err := Evaluate(c, s, "GET")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		d, err := Evaluate(c, s, "GET")
		require.NoError(t, err)
		assert.Equal(t, first, d)
	}
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, Decision{Outcome: Proceed}.Err())
	assert.ErrorIs(t, Decision{Outcome: NotModified}.Err(), status.ErrNotModified)
	assert.ErrorIs(t, Decision{Outcome: NotFound}.Err(), status.ErrNotFound)

	e, ok := status.As(Decision{Outcome: PreconditionFailed, Header: "If-Match"}.Err())
	require.True(t, ok)
	assert.Equal(t, http.StatusPreconditionFailed, e.Code)
	assert.Equal(t, "If-Match", e.Header)
}

func TestParseConditions(t *testing.T) {
	h := http.Header{}
	h.Set("If-Range", `"a"`)
	h.Set("If-Match", "garbage")
	_, err := ParseConditions(h)
	assert.ErrorIs(t, err, status.ErrNotImplemented)

	h = http.Header{}
	h.Set("If-Match", "garbage")
	_, err = ParseConditions(h)
	assert.ErrorIs(t, err, status.ErrParse)

	h = http.Header{}
	h.Set("If-Modified-Since", "last tuesday")
	_, err = ParseConditions(h)
	assert.ErrorIs(t, err, status.ErrParse)

	h = http.Header{}
	h.Add("If-None-Match", `"a"`)
	h.Add("If-None-Match", `"b"`)
	c, err := ParseConditions(h)
	require.NoError(t, err)
	assert.Equal(t, []EntityTag{`"a"`, `"b"`}, c.IfNoneMatch)
	assert.False(t, c.Empty())

	c, err = ParseConditions(http.Header{})
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestRequiresPrecondition(t *testing.T) {
	assert.True(t, RequiresPrecondition(Conditions{}, existing(`"a"`, nil), "PUT"))
	assert.False(t, RequiresPrecondition(conditions(t, "If-Match", `"a"`), existing(`"a"`, nil), "PUT"))
	assert.False(t, RequiresPrecondition(Conditions{}, State{}, "PUT"))
	assert.False(t, RequiresPrecondition(Conditions{}, existing(`"a"`, nil), "GET"))
}
