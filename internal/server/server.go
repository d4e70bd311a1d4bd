// Package server exposes the pipeline as a stateless HTTP upload endpoint.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/moznion/go-optional"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/argo-forecast/internal/datasource"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/pipeline"
	"github.com/rxtech-lab/argo-forecast/internal/selector"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"go.uber.org/zap"
)

// MaxUploadBytes bounds the size of an uploaded file.
const MaxUploadBytes = 32 << 20

// Server serves prediction requests. Each request is an independent run sharing only the
// pipeline and the metrics.
type Server struct {
	pipeline   *pipeline.Pipeline
	logger     *logger.Logger
	metrics    *Metrics
	registry   *prometheus.Registry
	router     *mux.Router
	httpServer *http.Server
	listener   net.Listener
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Stage string `json:"stage,omitempty"`
}

// New creates a server around p.
func New(p *pipeline.Pipeline, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}

	registry := prometheus.NewRegistry()

	s := &Server{
		pipeline:   p,
		logger:     log,
		metrics:    NewMetrics(registry),
		registry:   registry,
		router:     mux.NewRouter(),
		httpServer: nil,
		listener:   nil,
	}

	s.router.HandleFunc("/api/v1/predictions", s.handlePredict).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on address and serves in the background. ":0" picks a free port.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to listen on %s", address)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	s.logger.Info("HTTP server listening", zap.String("addr", listener.Addr().String()))

	return nil
}

// Addr returns the listening address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and waits for running ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePredict handles POST /api/v1/predictions
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	result, err := s.predict(r)
	if err != nil {
		s.metrics.observe(errors.GetCode(err).String(), time.Since(started).Seconds())
		s.writeError(w, err)

		return
	}

	s.metrics.observe("ok", time.Since(started).Seconds())
	s.metrics.rows.Observe(float64(result.Predicted.Len()))

	s.writeJSON(w, http.StatusOK, result.Payload)
}

func (s *Server) predict(r *http.Request) (pipeline.Result, error) {
	req, series, err := parseQuery(r)
	if err != nil {
		return pipeline.Result{}, err
	}

	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		return pipeline.Result{}, errors.Wrap(errors.ErrCodeInvalidParameter, "expected a multipart upload", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return pipeline.Result{}, errors.Wrap(errors.ErrCodeInvalidParameter, "missing form field \"file\"", err)
	}
	defer file.Close()

	result, err := s.pipeline.RunReader(file, datasource.FormatFromPath(header.Filename), req)
	if err != nil {
		return pipeline.Result{}, err
	}

	if len(series) > 0 {
		result = result.WithSeries(series)
	}

	return result, nil
}

func parseQuery(r *http.Request) (selector.RangeRequest, []types.ChartSeries, error) {
	query := r.URL.Query()
	req := selector.FullRangeRequest()

	for _, bound := range []struct {
		name   string
		target *optional.Option[time.Time]
	}{
		{"start", &req.Start},
		{"end", &req.End},
	} {
		value := strings.TrimSpace(query.Get(bound.name))
		if value == "" {
			continue
		}

		date, err := time.Parse(types.DateLayout, value)
		if err != nil {
			return req, nil, errors.Newf(errors.ErrCodeInvalidParameter,
				"%s must be a date in YYYY-MM-DD form, got %q", bound.name, value)
		}

		*bound.target = optional.Some(date)
	}

	var names []string
	for _, value := range query["series"] {
		names = append(names, strings.Split(value, ",")...)
	}

	series, err := types.ParseSeries(names)
	if err != nil {
		return req, nil, err
	}

	return req, series, nil
}

// StatusFor maps an error to the HTTP status returned to the client.
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidParameter,
		errors.ErrCodeFileRead,
		errors.ErrCodeDateParse,
		errors.ErrCodeValueParse,
		errors.ErrCodeSchemaMismatch,
		errors.ErrCodeRangeInvalid:
		return http.StatusBadRequest
	case errors.ErrCodeModelInvocation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	response := ErrorResponse{
		Error: err.Error(),
		Code:  errors.GetCode(err).String(),
	}

	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		response.Stage = stageErr.Stage.String()
		response.Error = stageErr.Err.Error()
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("Prediction request failed", zap.Error(err))
	} else {
		s.logger.Info("Prediction request rejected", zap.Int("status", status), zap.Error(err))
	}

	s.writeJSON(w, status, response)
}

// writeJSON encodes body before any header goes out, so an unencodable body becomes a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("Failed to encode response", zap.Int("status", status), zap.Error(err))

		status = http.StatusInternalServerError
		data, _ = json.Marshal(ErrorResponse{
			Error: "failed to encode response: " + err.Error(),
			Code:  errors.ErrCodeUnknown.String(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(append(data, '\n')); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}
