package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/skoehler/geomap/pkg/config"
	geomaperrors "github.com/skoehler/geomap/pkg/errors"
	"github.com/skoehler/geomap/pkg/palette"
	"github.com/skoehler/geomap/pkg/pipeline"
)

const (
	defaultAddr       = ":8080"
	maxSpecBytes      = 1 << 20 // plot specs are small TOML documents
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
}

// newServeCmd creates the serve command running a local preview server.
// POST a TOML plot spec to /v1/plots and get the rendered artifact back;
// repeated posts of the same spec are served from the stage cache.
func newServeCmd() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local HTTP preview server",
		Long: `Run a local HTTP preview server for iterating on plot specs.

Endpoints:
  GET  /healthz           liveness probe
  GET  /v1/palettes       list built-in palettes
  GET  /v1/legend         build a standalone legend from query parameters
  POST /v1/plots?format=  render a TOML plot spec (png, svg, json)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			runner, err := newRunner(cmd.Context(), logger, noCache, redisURL)
			if err != nil {
				return err
			}
			defer runner.Close()

			return serve(cmd.Context(), addr, &plotServer{runner: runner, logger: logger})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for the stage cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching entirely")

	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func serve(ctx context.Context, addr string, ps *plotServer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           ps.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		ps.logger.Info("preview server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// plotServer handles preview requests on top of a shared pipeline runner.
type plotServer struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// routes builds the chi router with request IDs and panic recovery.
func (ps *plotServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", ps.handleHealth)
	r.Get("/v1/palettes", ps.handlePalettes)
	r.Get("/v1/legend", ps.handleLegend)
	r.Post("/v1/plots", ps.handlePlot)

	return r
}

// requestID assigns a UUID to every request, exposed in the response and
// in the request context for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (ps *plotServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

func (ps *plotServer) handlePalettes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(palette.Names()); err != nil {
		ps.logger.Error("encode palettes", "err", err)
	}
}

// handleLegend builds a standalone legend from query parameters, the HTTP
// twin of the legend command. Example:
//
//	/v1/legend?breaks=-inf,0,10,inf&palette=rdylbu&title=Temp&format=svg
func (ps *plotServer) handleLegend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := &legendOpts{
		breaksStr: q.Get("breaks"),
		colorsStr: q.Get("colors"),
		palName:   q.Get("palette"),
		reverse:   q.Get("reverse") == "true",
		direction: valueOr(q.Get("direction"), "vertical"),
		spacing:   valueOr(q.Get("spacing"), "constant"),
		title:     q.Get("title"),
		expand:    0.3,
		barWidth:  0.1,
		format:    valueOr(q.Get("format"), pipeline.FormatSVG),
	}

	data, err := legendArtifact(opts)
	if err != nil {
		ps.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[opts.format])
	_, _ = w.Write(data)
}

// valueOr returns s, or def when s is empty.
func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// handlePlot renders a posted TOML plot spec and returns the artifact for
// the requested format (?format=png|svg|json, default png).
func (ps *plotServer) handlePlot(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatPNG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		ps.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSpecBytes))
	if err != nil {
		ps.writeError(w, r, geomaperrors.Wrap(geomaperrors.ErrCodeInvalidInput, err, "read request body"))
		return
	}

	spec, err := config.Decode(body)
	if err != nil {
		ps.writeError(w, r, err)
		return
	}

	refresh := r.URL.Query().Get("refresh") == "true"
	result, err := ps.runner.Execute(r.Context(), pipeline.Options{
		Spec:    spec,
		Formats: []string{format},
		Refresh: refresh,
		Logger:  ps.logger,
	})
	if err != nil {
		ps.writeError(w, r, err)
		return
	}

	ps.logger.Info("rendered plot",
		"request", middleware.GetReqID(r.Context()),
		"format", format,
		"rows", result.Stats.Rows,
		"cols", result.Stats.Cols,
		"cached", result.CacheInfo.RenderHit)

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Grid-Hash", result.GridHash)
	_, _ = w.Write(result.Artifacts[format])
}

// writeError maps domain errors to HTTP statuses: configuration mistakes
// are the client's fault, everything else is a server error.
func (ps *plotServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := geomaperrors.GetCode(err)
	switch {
	case geomaperrors.IsConfiguration(err):
		status = http.StatusBadRequest
	case geomaperrors.Is(err, geomaperrors.ErrCodeFileNotFound), geomaperrors.Is(err, geomaperrors.ErrCodeNotFound):
		status = http.StatusNotFound
	}

	ps.logger.Error("request failed",
		"request", middleware.GetReqID(r.Context()),
		"status", status,
		"err", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
		"code":  string(code),
	})
}
