package rackful

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pieterb/rackful/resource"
	"github.com/pieterb/rackful/rfc9110"
)

// phase of a single request/response exchange.
// Phases only move forward.
type phase int

const (
	received phase = iota
	conditionsChecked
	methodExecuting
	headersFinalized
	sent
)

func (p phase) String() string {
	switch p {
	case received:
		return "received"
	case conditionsChecked:
		return "conditions-checked"
	case methodExecuting:
		return "method-executing"
	case headersFinalized:
		return "headers-finalized"
	case sent:
		return "sent"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// exchange holds the state of one request. It is never shared between requests.
type exchange struct {
	r        *http.Request
	resource resource.Resource
	phase    phase
	log      *zerolog.Logger
}

func newExchange(r *http.Request, log *zerolog.Logger) *exchange {
	return &exchange{r: r, phase: received, log: log}
}

// enter moves the exchange to phase p. Moving backwards is a programming error.
func (x *exchange) enter(p phase) {
	if p < x.phase {
		panic(fmt.Sprintf("rackful: exchange moved back from %s to %s", x.phase, p))
	}
	if p != x.phase {
		x.log.Trace().Stringer("from", x.phase).Stringer("to", p).Msg("Exchange phase")
	}
	x.phase = p
}

// accept parses every Accept field line of the request as one list.
func (x *exchange) accept() ([]rfc9110.MediaRange, error) {
	return rfc9110.ParseAccept(strings.Join(x.r.Header.Values("Accept"), ", "))
}
