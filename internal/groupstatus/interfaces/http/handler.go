package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	apihttp "liftops-cloud/internal/api/http"
	assets "liftops-cloud/internal/assets/domain"
	"liftops-cloud/internal/auth"
	"liftops-cloud/internal/groupstatus/application"
	groupstatus "liftops-cloud/internal/groupstatus/domain"
	"liftops-cloud/internal/observability/metrics"
)

// Handler provides the group status HTTP endpoints.
type Handler struct {
	service     *application.Service
	viewChecker auth.ViewAccessChecker
}

// NewHandler constructs a handler.
func NewHandler(service *application.Service, viewChecker auth.ViewAccessChecker) (*Handler, error) {
	if service == nil {
		return nil, errors.New("group status handler: nil service")
	}
	return &Handler{service: service, viewChecker: viewChecker}, nil
}

// ServeHTTP handles /api/v1/groupstatus and subroutes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case "/api/v1/groupstatus":
		h.handleGrid(w, r)
	case "/api/v1/groupstatus/views":
		h.handleViews(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleGrid(w http.ResponseWriter, r *http.Request) {
	req, ok := gridRequest(w, r)
	if !ok {
		return
	}
	if h.viewChecker != nil {
		if err := h.viewChecker.EnsureViewAccess(r.Context(), req.UserID, req.ViewID); err != nil {
			respondAccessError(w, err)
			return
		}
	}

	start := time.Now()
	grid, err := h.service.BuildGroupStatus(r.Context(), req)
	if err != nil {
		metrics.ObserveGridBuild(metrics.ResultError, time.Since(start))
		respondGridError(w, err)
		return
	}
	metrics.ObserveGridBuild(metrics.ResultSuccess, time.Since(start))
	metrics.ObserveGridRows(len(grid.Rows))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(grid)
}

func (h *Handler) handleViews(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	views, err := h.service.AvailableViews(r.Context(), userID)
	if err != nil {
		respondGridError(w, err)
		return
	}
	payload := make([]map[string]any, 0, len(views))
	for _, view := range views {
		payload = append(payload, map[string]any{"viewId": view.ViewID, "name": view.Name})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// gridRequest parses the common grid query parameters shared with the
// export endpoints.
func gridRequest(w http.ResponseWriter, r *http.Request) (application.Request, bool) {
	rawView := r.URL.Query().Get("viewId")
	if rawView == "" {
		http.Error(w, "viewId is required", http.StatusBadRequest)
		return application.Request{}, false
	}
	viewID, err := strconv.Atoi(rawView)
	if err != nil || viewID <= 0 {
		http.Error(w, "viewId must be a positive integer", http.StatusBadRequest)
		return application.Request{}, false
	}
	group := r.URL.Query().Get("group")
	if group == "" {
		http.Error(w, "group is required", http.StatusBadRequest)
		return application.Request{}, false
	}
	return application.Request{
		ViewID:        viewID,
		GroupName:     group,
		UserID:        auth.UserIDFromContext(r.Context()),
		CorrelationID: apihttp.RequestIDFromContext(r.Context()),
	}, true
}

func respondAccessError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrViewForbidden) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if errors.Is(err, auth.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, "view access check failed", http.StatusInternalServerError)
}

func respondGridError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, groupstatus.ErrMissingCorrelation),
		errors.Is(err, groupstatus.ErrMissingViewID),
		errors.Is(err, groupstatus.ErrMissingGroup),
		errors.Is(err, groupstatus.ErrMissingUserID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, assets.ErrNoRecord):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
