package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	apihttp "liftops-cloud/internal/api/http"
	"liftops-cloud/internal/observability/metrics"
	rollupapp "liftops-cloud/internal/rollup/application"
	rollup "liftops-cloud/internal/rollup/domain"
)

// Handler provides the dashboard widget HTTP endpoints.
type Handler struct {
	service *rollupapp.WidgetService
}

// NewHandler constructs a handler.
func NewHandler(service *rollupapp.WidgetService) (*Handler, error) {
	if service == nil {
		return nil, errors.New("widgets handler: nil service")
	}
	return &Handler{service: service}, nil
}

// ServeHTTP handles /api/v1/widgets subroutes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case "/api/v1/widgets/classifications":
		h.handleClassifications(w, r)
	case "/api/v1/widgets/alarms":
		h.handleAlarms(w, r)
	case "/api/v1/widgets/downtime":
		h.handleDowntime(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleClassifications(w http.ResponseWriter, r *http.Request) {
	req, ok := widgetRequest(w, r)
	if !ok {
		return
	}
	start := time.Now()
	widget, err := h.service.Classifications(r.Context(), req)
	if err != nil {
		metrics.ObserveWidget("classifications", metrics.ResultError, time.Since(start))
		respondWidgetError(w, err)
		return
	}
	metrics.ObserveWidget("classifications", metrics.ResultSuccess, time.Since(start))
	respondJSON(w, widget)
}

func (h *Handler) handleAlarms(w http.ResponseWriter, r *http.Request) {
	req, ok := widgetRequest(w, r)
	if !ok {
		return
	}
	start := time.Now()
	widget, err := h.service.Alarms(r.Context(), req)
	if err != nil {
		metrics.ObserveWidget("alarms", metrics.ResultError, time.Since(start))
		respondWidgetError(w, err)
		return
	}
	metrics.ObserveWidget("alarms", metrics.ResultSuccess, time.Since(start))
	respondJSON(w, widget)
}

func (h *Handler) handleDowntime(w http.ResponseWriter, r *http.Request) {
	req, ok := widgetRequest(w, r)
	if !ok {
		return
	}
	digits := 0
	if raw := r.URL.Query().Get("digits"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "digits must be a positive integer", http.StatusBadRequest)
			return
		}
		digits = parsed
	}
	start := time.Now()
	widget, err := h.service.Downtime(r.Context(), req, digits)
	if err != nil {
		metrics.ObserveWidget("downtime", metrics.ResultError, time.Since(start))
		respondWidgetError(w, err)
		return
	}
	metrics.ObserveWidget("downtime", metrics.ResultSuccess, time.Since(start))
	respondJSON(w, widget)
}

func widgetRequest(w http.ResponseWriter, r *http.Request) (rollupapp.Request, bool) {
	group := r.URL.Query().Get("group")
	if group == "" {
		http.Error(w, "group is required", http.StatusBadRequest)
		return rollupapp.Request{}, false
	}
	return rollupapp.Request{
		GroupName:     group,
		CorrelationID: apihttp.RequestIDFromContext(r.Context()),
	}, true
}

func respondWidgetError(w http.ResponseWriter, err error) {
	if errors.Is(err, rollup.ErrMissingCorrelation) || errors.Is(err, rollup.ErrMissingGroup) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func respondJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
