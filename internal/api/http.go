package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/miradorstack/scalegate/internal/services"
	"github.com/miradorstack/scalegate/internal/timescale"
)

const maxRequestBytes = 1 << 20

// HTTPHandler serves the JSON gateway next to the gRPC listener.
type HTTPHandler struct {
	validator Validator
	logger    *slog.Logger
}

// NewHTTPHandler constructs the JSON gateway.
func NewHTTPHandler(validator Validator, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{validator: validator, logger: logger}
}

// RegisterRoutes wires the API, health and metrics endpoints onto router.
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/validate", h.validate).Methods(http.MethodPost)
	v1.HandleFunc("/common-scale", h.commonScale).Methods(http.MethodPost)

	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// NewRouter returns a router with every route registered.
func NewRouter(validator Validator, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()
	NewHTTPHandler(validator, logger).RegisterRoutes(router)
	return router
}

// validate answers 200 for a valid report, 422 for a report with errors.
func (h *HTTPHandler) validate(w http.ResponseWriter, r *http.Request) {
	var wire ValidateRequest
	if err := decodeJSON(w, r, &wire); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	req, err := FromValidateRequest(wire)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := h.validator.Validate(r.Context(), req)
	switch {
	case errors.Is(err, services.ErrRescalingFailure):
		h.writeJSON(w, http.StatusUnprocessableEntity, ToValidateResponse(report))
	case err != nil:
		h.writeError(w, httpStatus(err), err)
	default:
		h.writeJSON(w, http.StatusOK, ToValidateResponse(report))
	}
}

func (h *HTTPHandler) commonScale(w http.ResponseWriter, r *http.Request) {
	var wire CommonScaleRequest
	if err := decodeJSON(w, r, &wire); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	scales, err := FromCommonScaleRequest(wire)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	common, err := h.validator.LeastCommonTimeScale(r.Context(), scales)
	if err != nil {
		h.writeError(w, httpStatus(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, CommonScaleResponse{TimeScale: FromTimeScale(common)})
}

func (h *HTTPHandler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "SERVING"})
}

func httpStatus(err error) int {
	var rescaling *timescale.RescalingError
	switch {
	case errors.Is(err, timescale.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.As(err, &rescaling):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", slog.Int("status", status), slog.Any("error", err))
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("write response", slog.Any("error", err))
	}
}
