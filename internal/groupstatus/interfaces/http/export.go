package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	apihttp "liftops-cloud/internal/api/http"
	"liftops-cloud/internal/audit"
	"liftops-cloud/internal/auth"
	"liftops-cloud/internal/groupstatus/application"
	"liftops-cloud/internal/groupstatus/interfaces"
	"liftops-cloud/internal/observability/metrics"
)

// ExportHandler serves the group status grid as a downloadable document.
type ExportHandler struct {
	service     *application.Service
	viewChecker auth.ViewAccessChecker
	auditLogger audit.Logger
}

// NewExportHandler constructs an export handler.
func NewExportHandler(service *application.Service, viewChecker auth.ViewAccessChecker, auditLogger audit.Logger) (*ExportHandler, error) {
	if service == nil {
		return nil, errors.New("group status export handler: nil service")
	}
	return &ExportHandler{service: service, viewChecker: viewChecker, auditLogger: auditLogger}, nil
}

// ServeHTTP handles /api/v1/exports/groupstatus.xlsx and .pdf.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var format string
	switch r.URL.Path {
	case "/api/v1/exports/groupstatus.xlsx":
		format = "xlsx"
	case "/api/v1/exports/groupstatus.pdf":
		format = "pdf"
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

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
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		respondGridError(w, err)
		return
	}

	var payload []byte
	switch format {
	case "xlsx":
		payload, err = interfaces.BuildGridXLSX(req.GroupName, grid)
	case "pdf":
		payload, err = interfaces.BuildGridPDF(req.GroupName, grid)
	}
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		http.Error(w, "render export error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport(format, metrics.ResultSuccess, time.Since(start))

	h.logExport(r, req, format)

	switch format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="groupstatus.xlsx"`)
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="groupstatus.pdf"`)
	}
	_, _ = w.Write(payload)
}

func (h *ExportHandler) logExport(r *http.Request, req application.Request, format string) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{"viewId": strconv.Itoa(req.ViewID), "format": format})
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       "export_group_status",
		ResourceType: "group_status_view",
		ResourceID:   strconv.Itoa(req.ViewID),
		GroupName:    req.GroupName,
		RequestID:    apihttp.RequestIDFromContext(r.Context()),
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}
