// Package rackful serves HTTP/1.1 resources with conditional requests,
// content negotiation and method dispatch handled for them.
//
// Resources come from a Registry and describe their capabilities by the
// interfaces of package resource they implement. The Server evaluates
// preconditions, picks a representation, dispatches the method and turns
// every status condition into a proper response.
package rackful

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	rules "github.com/pieterb/rackful/pkg/header-rules"
	"github.com/pieterb/rackful/pkg/location"
	buffer "github.com/pieterb/rackful/pkg/response-buffer"
	"github.com/pieterb/rackful/resource"
	"github.com/pieterb/rackful/rfc9110"
	"github.com/pieterb/rackful/status"
)

type Config struct {
	// Resolves request paths to resources. Required.
	Registry Registry
	// Logger to use. A console logger is created if nil.
	Logger *zerolog.Logger
	// Largest request content accepted, in bytes. Zero means unlimited.
	MaxBodySize int64
	// Longest request target accepted, in bytes. Zero means unlimited.
	MaxURILength int
	// Reject unconditional writes to existing resources with 428.
	RequirePreconditions bool
	// Headers added to successful GET responses.
	Rules rules.Rules
}

// Server is an http.Handler. It holds no per-request state, so one Server
// serves any number of concurrent requests.
type Server struct {
	registry             Registry
	log                  zerolog.Logger
	maxBodySize          int64
	maxURILength         int
	requirePreconditions bool
	rules                rules.Rules
}

// statusRepresentations are the renderings of status conditions.
var statusRepresentations = resource.NewTable(status.MediaTypes...).Representations()

// New creates a Server from config.
func New(config Config) *Server {
	// use console logger if not specified in config
	var logger zerolog.Logger
	if config.Logger == nil {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		logger = *config.Logger
	}
	logger = logger.With().Str("component", "rackful").Logger()

	if config.Registry == nil {
		panic("rackful: no registry configured")
	}

	return &Server{
		registry:             config.Registry,
		log:                  logger,
		maxBodySize:          config.MaxBodySize,
		maxURILength:         config.MaxURILength,
		requirePreconditions: config.RequirePreconditions,
		rules:                config.Rules,
	}
}

// ServeHTTP implements the http.Handler interface.
//
// The response is built in a buffer and only sent at the very end, after
// status conditions have been rendered, validators added and HEAD content
// dropped.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	x := newExchange(r, s.getLogger(r))
	rb := buffer.New()

	if err := s.serve(rb, x); err != nil {
		s.renderStatus(rb, x, err)
	}
	if err := s.enrich(rb, x); err != nil {
		s.renderStatus(rb, x, err)
	}
	s.finalize(rb, x)

	x.log.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", rb.StatusCode()).
		Msg("Response")
	x.enter(sent)
	if err := rb.WriteTo(w); err != nil {
		x.log.Debug().Err(err).Msg("Could not write response")
	}
}

// serve resolves the resource, checks preconditions and dispatches.
func (s *Server) serve(rb *buffer.ResponseBuffer, x *exchange) error {
	r := x.r
	if s.maxURILength > 0 && len(r.RequestURI) > s.maxURILength {
		return status.URITooLong(s.maxURILength)
	}
	if s.maxBodySize > 0 {
		if r.ContentLength > s.maxBodySize {
			return status.RequestTooLarge(s.maxBodySize)
		}
		r.Body = http.MaxBytesReader(rb, r.Body, s.maxBodySize)
	}

	res, err := s.lookup(r.Context(), r.URL.Path)
	if err != nil {
		return err
	}
	x.resource = res

	if err := s.checkPreconditions(x); err != nil {
		return err
	}
	x.enter(conditionsChecked)

	return s.dispatch(rb, x)
}

func (s *Server) checkPreconditions(x *exchange) error {
	conditions, err := rfc9110.ParseConditions(x.r.Header)
	if err != nil {
		return err
	}
	state := resource.Validators(x.resource)
	decision, err := rfc9110.Evaluate(conditions, state, x.r.Method)
	if err != nil {
		return err
	}
	x.log.Trace().Stringer("outcome", decision.Outcome).Str("header", decision.Header).Msg("Preconditions evaluated")
	if err := decision.Err(); err != nil {
		return err
	}
	if s.requirePreconditions && rfc9110.RequiresPrecondition(conditions, state, x.r.Method) {
		return status.PreconditionRequired()
	}
	return nil
}

// renderStatus replaces whatever is in rb with the response for err.
// Server errors are logged, never turned into another status.
func (s *Server) renderStatus(rb *buffer.ResponseBuffer, x *exchange, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		err = status.RequestTooLarge(tooLarge.Limit)
	}
	e := status.From(err)
	if e.Code >= 500 {
		x.log.Error().Err(err).Str("method", x.r.Method).Str("path", x.r.URL.Path).Msg("Request failed")
	} else {
		x.log.Trace().Err(err).Msg("Status condition")
	}

	rb.Reset()
	for name, values := range e.Headers() {
		rb.Header()[name] = values
	}
	rb.WriteHeader(e.Code)
	if e.Bodiless() {
		return
	}

	// a malformed Accept must not keep the error from being reported
	accept, _ := x.accept()
	mediaType, _ := rfc9110.Negotiate(accept, statusRepresentations, false)
	rb.Header().Set("Content-Type", mediaType)
	if err := e.Render(rb, mediaType); err != nil {
		x.log.Error().Err(err).Msg("Could not render status")
	}
}

// enrich adds the validators of the affected resource to a successful
// response: the created resource for a 201 with Location, the target
// otherwise. A resource that is gone by now is skipped.
func (s *Server) enrich(rb *buffer.ResponseBuffer, x *exchange) error {
	code := rb.StatusCode()
	loc := rb.Header().Get("Location")
	path := x.r.URL.Path
	switch {
	case code == http.StatusCreated && loc != "":
		p, ok := location.Path(x.r, loc)
		if !ok {
			return nil
		}
		path = p
	case (code >= 200 && code < 300 || code == http.StatusNotModified) && loc == "":
	default:
		return nil
	}

	res, err := s.lookup(x.r.Context(), path)
	if errors.Is(err, status.ErrNotFound) {
		x.log.Trace().Str("path", path).Msg("No resource to take validators from")
		return nil
	}
	if err != nil {
		return err
	}
	mergeMissing(rb.Header(), resource.DefaultHeaders(res))
	return nil
}

// finalize fixes up headers and drops content that must not be sent.
func (s *Server) finalize(rb *buffer.ResponseBuffer, x *exchange) {
	h := rb.Header()
	if x.resource != nil && x.resource.Path() != "" && x.resource.Path() != x.r.URL.Path {
		h.Set("Content-Location", x.resource.Path())
	}
	s.rules.Apply(x.r, rb.StatusCode(), h)
	location.Absolutize(x.r, h)

	if rb.StatusCode() == http.StatusNotModified {
		rb.DiscardBody()
		h.Del("Content-Type")
		h.Del("Content-Length")
	}
	x.enter(headersFinalized)

	if x.r.Method == http.MethodHead {
		rb.DiscardBody()
		h.Set("Content-Length", "0")
	}
}

func (s *Server) getLogger(r *http.Request) *zerolog.Logger {
	logger := hlog.FromRequest(r)
	if logger.GetLevel() == zerolog.Disabled {
		logger = &s.log
	}
	return logger
}
