package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/plan-forecast/internal/config"
	"github.com/iwvelando/plan-forecast/internal/forecast"
	"github.com/iwvelando/plan-forecast/internal/optimizer"
	"github.com/iwvelando/plan-forecast/pkg/constants"
	"github.com/iwvelando/plan-forecast/pkg/export"
	"github.com/iwvelando/plan-forecast/pkg/output"
	"github.com/iwvelando/plan-forecast/pkg/projection"
	"github.com/iwvelando/plan-forecast/pkg/validation"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request identifier on every response.
const RequestIDHeader = "X-Request-ID"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type requestIDKey struct{}

type handler struct {
	logger         *zap.Logger
	maxUploadSize  int64
	version        string
	exportBaseName string
	now            func() time.Time
}

// Option adjusts a handler built by NewHandler.
type Option func(*handler)

// WithExportBaseName sets the file name stem of workbook downloads.
func WithExportBaseName(name string) Option {
	return func(h *handler) {
		if strings.TrimSpace(name) != "" {
			h.exportBaseName = strings.TrimSpace(name)
		}
	}
}

// NewHandler constructs the HTTP handler that serves the projection API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, opts ...Option) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:         logger,
		maxUploadSize:  maxUploadSize,
		version:        trimmedVersion,
		exportBaseName: constants.DefaultExportBaseName,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	mux := http.NewServeMux()

	// Projection of a single parameter set
	mux.HandleFunc("/api/projection", h.handleProjection)

	// Workbook download of a single parameter set
	mux.HandleFunc("/api/export", h.handleExport)

	// Full configuration upload, every active scenario
	mux.HandleFunc("/api/forecast", h.handleForecast)

	// Presets, CAPEX scenarios and sweepable parameters
	mux.HandleFunc("/api/presets", h.handlePresets)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return h.withRequestID(mux)
}

// withRequestID propagates a valid incoming X-Request-ID or assigns a new one.
func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

// projectionRequest is the JSON body of /api/projection and /api/export.
// Parameters is a patch on the built-in defaults, applied after Preset.
type projectionRequest struct {
	Preset      string                 `json:"preset"`
	Parameters  map[string]interface{} `json:"parameters"`
	Horizon     *int                   `json:"horizon"`
	Sensitivity []config.Sensitivity   `json:"sensitivity"`
	Compare     []string               `json:"compare"`
	FileName    string                 `json:"fileName"`
}

type projectionResponse struct {
	RequestID   string                          `json:"requestId"`
	Parameters  projection.Parameters           `json:"parameters"`
	Projection  projection.Series               `json:"projection"`
	Summary     projection.Summary              `json:"summary"`
	Sensitivity []forecast.Sweep                `json:"sensitivity,omitempty"`
	Comparisons []projection.ScenarioComparison `json:"comparisons,omitempty"`
	Duration    string                          `json:"duration"`
}

type forecastResponse struct {
	RequestID string              `json:"requestId"`
	Scenarios []forecast.Forecast `json:"scenarios"`
	CSV       string              `json:"csv"`
	Warnings  []string            `json:"warnings,omitempty"`
	Duration  string              `json:"duration"`
}

type presetsResponse struct {
	Presets              []projection.Preset        `json:"presets"`
	CapexScenarios       []projection.CapexScenario `json:"capexScenarios"`
	SensitivityParameter []string                   `json:"sensitivityParameters"`
	Defaults             projection.Parameters      `json:"defaults"`
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjection"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req, ok := h.decodeProjectionRequest(w, r, op)
	if !ok {
		return
	}

	result, err := h.project(req)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	response := projectionResponse{
		RequestID:   requestID(r),
		Parameters:  result.Parameters,
		Projection:  result.Projection,
		Summary:     result.Summary,
		Sensitivity: result.Sensitivity,
	}
	if len(req.Compare) > 0 {
		response.Comparisons, err = projection.CompareScenarios(h.logger, result.Parameters, req.Compare)
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
			return
		}
	}
	response.Duration = time.Since(start).String()

	h.logger.Info("projection computed",
		zap.String("op", op),
		zap.String("requestId", requestID(r)),
		zap.Int("years", len(response.Projection)),
		zap.Int("comparisons", len(response.Comparisons)),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	req, ok := h.decodeProjectionRequest(w, r, op)
	if !ok {
		return
	}
	result, err := h.project(req)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := output.XlsxFormat(&buf, []forecast.Forecast{result}); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	base := h.exportBaseName
	if name := strings.TrimSpace(req.FileName); name != "" {
		base = name
	}
	filename := export.FileName(base, h.now())

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write workbook",
			zap.String("op", op),
			zap.String("requestId", requestID(r)),
			zap.Error(err),
		)
		return
	}

	h.logger.Info("workbook exported",
		zap.String("op", op),
		zap.String("requestId", requestID(r)),
		zap.String("filename", filename),
	)
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	cfg, err := config.LoadConfigurationFromReader(file)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	results, err := forecast.GetForecast(h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to compute forecast: %v", err), op)
		return
	}
	if err := optimizer.Optimize(h.logger, cfg, results); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to run optimizers: %v", err), op)
		return
	}

	var csvBuf bytes.Buffer
	if err := output.WriteCSV(&csvBuf, results); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.String("requestId", requestID(r)),
		zap.Int("scenarios", len(results)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, forecastResponse{
		RequestID: requestID(r),
		Scenarios: results,
		CSV:       csvBuf.String(),
		Warnings:  warnings,
		Duration:  elapsed.String(),
	})
}

func (h *handler) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, presetsResponse{
		Presets:              projection.Presets(),
		CapexScenarios:       projection.CapexScenarios(),
		SensitivityParameter: projection.SensitivityParameterNames(),
		Defaults:             projection.DefaultParameters(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) decodeProjectionRequest(w http.ResponseWriter, r *http.Request, op string) (projectionRequest, bool) {
	var req projectionRequest
	body := http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return req, false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return req, false
	}
	return req, true
}

// project runs a request through the same path as a one-scenario
// configuration file.
func (h *handler) project(req projectionRequest) (forecast.Forecast, error) {
	horizon := constants.DefaultHorizon
	if req.Horizon != nil {
		horizon = *req.Horizon
	}
	if err := validation.ValidateHorizon(horizon); err != nil {
		return forecast.Forecast{}, err
	}

	name := req.Preset
	if name == "" {
		name = "base"
	}
	conf := config.Configuration{
		Horizon:     horizon,
		Scenarios:   []config.Scenario{{Name: name, Active: true, Preset: req.Preset, Parameters: req.Parameters}},
		Sensitivity: req.Sensitivity,
	}
	return forecast.Run(h.logger, conf, conf.Scenarios[0])
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("requestId", requestID(r)),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg, "requestId": requestID(r)})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
