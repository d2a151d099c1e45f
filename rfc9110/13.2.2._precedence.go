package rfc9110

import (
	"fmt"

	"github.com/pieterb/rackful/status"
)

// State is what the evaluator knows about the target resource.
// ETag is empty and LastModified nil when the resource has no such validator.
type State struct {
	Exists       bool
	ETag         EntityTag
	LastModified *LastModified
}

// Outcome of precondition evaluation.
type Outcome int

const (
	Proceed Outcome = iota
	NotModified
	PreconditionFailed
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Proceed:
		return "proceed"
	case NotModified:
		return "not-modified"
	case PreconditionFailed:
		return "precondition-failed"
	case NotFound:
		return "not-found"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Decision is the result of Evaluate.
// Header names the failing request header for PreconditionFailed.
type Decision struct {
	Outcome Outcome
	Header  string
}

// Err returns the status condition for the decision, nil for Proceed.
func (d Decision) Err() error {
	switch d.Outcome {
	case NotModified:
		return status.NotModified()
	case PreconditionFailed:
		return status.PreconditionFailed(d.Header)
	case NotFound:
		return status.NotFound("")
	}
	return nil
}

func proceed() Decision {
	return Decision{Outcome: Proceed}
}

func failed(header string) Decision {
	return Decision{Outcome: PreconditionFailed, Header: header}
}

// §  13.2.2.  Precedence of Preconditions
// §
// §     When more than one conditional request header field is present in a
// §     request, the order in which the fields are evaluated becomes
// §     important.  In practice, the fields defined in this document are
// §     consistently implemented in a single, logical order, since "lost
// §     update" preconditions have more strict requirements than cache
// §     validation, a validated cache is more efficient than a partial
// §     response, and entity tags are presumed to be more accurate than date
// §     validators.
//
// Evaluate decides whether a request with the given method and conditions may
// proceed against a resource in state s. The returned error is only ever a
// weak-comparison error for an unsafe method.
func Evaluate(c Conditions, s State, method string) (Decision, error) {
	if !s.Exists {
		return evaluateEmpty(c), nil
	}
	allowWeak := AllowWeak(method)

	// If-None-Match is decided before If-Match.
	// §     3.  When recipient is the origin server, If-None-Match is present,
	// §         evaluate the If-None-Match precondition:
	// §
	// §         *  if true, continue to step 4
	// §
	// §         *  if false for GET/HEAD, respond 304 (Not Modified)
	// §
	// §         *  if false for other methods, respond 412 (Precondition
	// §            Failed)
	if c.IfNoneMatch != nil {
		matches, err := MatchesAny(s.ETag, c.IfNoneMatch, allowWeak)
		if err != nil {
			return Decision{}, err
		}
		if matches {
			if allowWeak {
				return Decision{Outcome: NotModified}, nil
			}
			return failed(HeaderIfNoneMatch), nil
		}
	}

	// §     1.  When recipient is the origin server and If-Match is present,
	// §         evaluate the If-Match precondition:
	// §
	// §         *  if true, continue to step 3
	// §
	// §         *  if false, respond 412 (Precondition Failed) unless it can be
	// §            determined that the state-changing request has already
	// §            succeeded (see Section 13.1.1)
	if c.IfMatch != nil {
		matches, err := MatchesAny(s.ETag, c.IfMatch, allowWeak)
		if err != nil {
			return Decision{}, err
		}
		if !matches {
			return failed(HeaderIfMatch), nil
		}
	}

	// §     2.  When recipient is the origin server, If-Match is not present, and
	// §         If-Unmodified-Since is present, evaluate the If-Unmodified-Since
	// §         precondition:
	// §
	// §         *  if true, continue to step 3
	// §
	// §         *  if false, respond 412 (Precondition Failed) unless it can be
	// §            determined that the state-changing request has already
	// §            succeeded (see Section 13.1.4)
	if c.IfUnmodifiedSince != nil {
		lm := s.LastModified
		if lm == nil || lm.After(*c.IfUnmodifiedSince) {
			return failed(HeaderIfUnmodifiedSince), nil
		}
		if weakOnly(lm, allowWeak) && lm.Equal(*c.IfUnmodifiedSince) {
			return failed(HeaderIfUnmodifiedSince), nil
		}
		return proceed(), nil
	}

	// §     4.  When the method is GET or HEAD, If-None-Match is not present, and
	// §         If-Modified-Since is present, evaluate the If-Modified-Since
	// §         precondition:
	// §
	// §         *  if true, continue to step 5
	// §
	// §         *  if false, respond 304 (Not Modified)
	//
	// An equal weak date fails outright where weak comparison is not allowed.
	if c.IfModifiedSince != nil {
		lm := s.LastModified
		if lm != nil && weakOnly(lm, allowWeak) && lm.Equal(*c.IfModifiedSince) {
			return failed(HeaderIfModifiedSince), nil
		}
		if lm == nil || !lm.After(*c.IfModifiedSince) {
			return Decision{Outcome: NotModified}, nil
		}
	}

	return proceed(), nil
}

// evaluateEmpty handles a target resource without a current representation.
func evaluateEmpty(c Conditions) Decision {
	switch {
	case c.IfMatch != nil:
		// §     If the field value is "*", the condition is false if the origin
		// §     server does not have a current representation for the target
		// §     resource.
		return failed(HeaderIfMatch)
	case c.IfUnmodifiedSince != nil:
		return failed(HeaderIfUnmodifiedSince)
	case c.IfModifiedSince != nil:
		return Decision{Outcome: NotFound}
	}
	return proceed()
}

func weakOnly(lm *LastModified, allowWeak bool) bool {
	return !lm.Strong && !allowWeak
}

// RequiresPrecondition reports whether an unsafe request against an existing
// resource lacks both If-Match and If-Unmodified-Since (RFC 6585, section 3).
func RequiresPrecondition(c Conditions, s State, method string) bool {
	if !s.Exists || IsSafe(method) {
		return false
	}
	return c.IfMatch == nil && c.IfUnmodifiedSince == nil
}
