package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/pieterb/rackful"
	"github.com/pieterb/rackful/config"
	"github.com/pieterb/rackful/documents"
	"github.com/pieterb/rackful/pkg/metrics"
	"github.com/pieterb/rackful/pkg/spoofing"
	"github.com/pieterb/rackful/store"
)

// set at build time with -ldflags "-X main.version=..."
var version string

func main() {
	flagset := pflag.NewFlagSet(filepath.Base(os.Args[0]), pflag.ExitOnError)
	configFlag := flagset.StringP("config", "c", "", "YAML config file")
	listenFlag := flagset.String("listen", "", "Address to listen on")
	providerFlag := flagset.String("store", "", "Document store: memory, sqlite or pebble")
	storePathFlag := flagset.String("store-path", "", "SQLite database file or pebble directory")
	logFileFlag := flagset.String("log-file", "", "Log file to use (in addition to stdout)")
	verboseFlag := flagset.BoolP("verbose", "v", false, "Verbosity: trace logging")
	flagset.Parse(os.Args[1:])

	if version == "" {
		version = "DEV"
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	if *listenFlag != "" {
		cfg.Listen = *listenFlag
	}
	if *providerFlag != "" {
		cfg.Store.Provider = *providerFlag
	}
	if *storePathFlag != "" {
		cfg.Store.Path = *storePathFlag
	}
	if *logFileFlag != "" {
		cfg.LogFile = *logFileFlag
	}
	if *verboseFlag {
		cfg.Verbose = true
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	// set log level
	logLevel := zerolog.DebugLevel
	if cfg.Verbose {
		logLevel = zerolog.TraceLevel
	}

	// set up log output to stdout
	// also output to logfile if specified
	logOutputs := make([]io.Writer, 0)
	logOutputs = append(logOutputs, zerolog.ConsoleWriter{Out: os.Stdout})
	if cfg.LogFile != "" {
		if logFileOutput, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644); err != nil {
			log.Fatal().Err(err).Msg("Cannot open log file")
		} else {
			logOutputs = append(logOutputs, logFileOutput)
		}
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Str("version", version).Logger()

	provider, err := openStore(cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot open store")
	}
	defer provider.Close()

	server := rackful.New(rackful.Config{
		Registry: documents.New(documents.Config{
			Store:       provider,
			AcceptTypes: cfg.AcceptTypes,
		}),
		Logger:               &log.Logger,
		MaxBodySize:          cfg.MaxBodySize,
		MaxURILength:         cfg.MaxURILength,
		RequirePreconditions: cfg.RequirePreconditions,
		Rules:                cfg.Rules,
	})

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           router(cfg, server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().Msgf("Serving %s documents on %s", cfg.Store.Provider, cfg.Listen)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func openStore(s config.Store) (store.Provider, error) {
	switch s.Provider {
	case config.ProviderSQLite:
		return store.NewSQLiteStore(s.Path)
	case config.ProviderPebble:
		return store.NewPebbleStore(s.Path)
	default:
		return store.NewMemStore(), nil
	}
}

// router serves operational endpoints under /-/ and everything else with
// server. Other paths are not routed through chi, which only knows the
// standard methods.
func router(cfg config.Config, server http.Handler) http.Handler {
	middlewares := chi.Middlewares{
		middleware.RealIP,
		middleware.Recoverer,
		hlog.NewHandler(log.Logger),
		hlog.RequestIDHandler("req_id", "X-Request-Id"),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("Request")
		}),
	}

	ops := chi.NewRouter()
	ops.Get("/-/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok\n"))
	})
	if cfg.Metrics {
		m := metrics.New("rackful")
		middlewares = append(middlewares, m.Instrument)
		ops.Method(http.MethodGet, "/-/metrics", m.Handler())
	}

	// spoofing rewrites the method, so it runs before the server sees it
	app := spoofing.MethodOverride(spoofing.HeaderSpoofing(server))
	return middlewares.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/-/") {
			ops.ServeHTTP(w, r)
			return
		}
		app.ServeHTTP(w, r)
	}))
}
