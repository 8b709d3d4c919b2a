package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	apihttp "liftops-cloud/internal/api/http"
	assets "liftops-cloud/internal/assets/domain"
	rollupapp "liftops-cloud/internal/rollup/application"
	rollup "liftops-cloud/internal/rollup/domain"
)

type fakeGroups struct {
	group *assets.Group
	err   error
}

func (f *fakeGroups) Resolve(ctx context.Context, groupName, correlationID string) (*assets.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.group, nil
}

type fakeSeries struct{}

func (fakeSeries) RodPumpDays(ctx context.Context, nodeIDs []string, from, to time.Time) ([]rollup.RodPumpDay, error) {
	return []rollup.RodPumpDay{{NodeID: nodeIDs[0], RuntimeHours: 10}}, nil
}

func (fakeSeries) MeasurementSamples(ctx context.Context, nodeIDs []string, stdMeasurementType int, from, to time.Time) (map[string][]float64, error) {
	return nil, nil
}

type fakeEvents struct{}

func (fakeEvents) ClassificationCounts(ctx context.Context, nodeIDs []string) ([]rollup.ClassificationCount, error) {
	return []rollup.ClassificationCount{{Name: "Down", Priority: 1, Count: 1}}, nil
}

func (fakeEvents) AlarmCounts(ctx context.Context, nodeIDs []string) ([]rollup.AlarmCount, error) {
	return []rollup.AlarmCount{{Description: "High Pressure", Count: 1}}, nil
}

func (fakeEvents) RunStatuses(ctx context.Context, nodeIDs []string) (map[string]string, error) {
	return map[string]string{nodeIDs[0]: "Shutdown: High Pressure"}, nil
}

func testHandler(t *testing.T, groups *fakeGroups) *Handler {
	t.Helper()
	logger := log.New(os.Stderr, "", 0)
	svc, err := rollupapp.NewWidgetService(groups, fakeSeries{}, fakeEvents{}, logger)
	if err != nil {
		t.Fatalf("NewWidgetService: %v", err)
	}
	handler, err := NewHandler(svc)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return handler
}

func widgetGet(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(apihttp.WithRequestID(req.Context(), "req-1"))
}

func TestWidgetsRequireGroup(t *testing.T) {
	handler := testHandler(t, &fakeGroups{group: &assets.Group{}})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, widgetGet("/api/v1/widgets/classifications"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClassificationsWidget(t *testing.T) {
	group := &assets.Group{Name: "A", Assets: []assets.Asset{
		{ID: uuid.New(), AssetName: "WELL-01", IndustryApplicationID: assets.ApplicationRodPump},
		{ID: uuid.New(), AssetName: "WELL-02", IndustryApplicationID: assets.ApplicationRodPump},
	}}
	handler := testHandler(t, &fakeGroups{group: group})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, widgetGet("/api/v1/widgets/classifications?group=A"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var widget rollupapp.ClassificationWidget
	if err := json.Unmarshal(rec.Body.Bytes(), &widget); err != nil {
		t.Fatalf("decode widget: %v", err)
	}
	if widget.Population != 2 || len(widget.Classifications) != 1 {
		t.Fatalf("unexpected widget %+v", widget)
	}
}

func TestDowntimeWidgetRejectsBadDigits(t *testing.T) {
	handler := testHandler(t, &fakeGroups{group: &assets.Group{}})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, widgetGet("/api/v1/widgets/downtime?group=A&digits=zero"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDowntimeWidgetEmptyGroupIsSuccess(t *testing.T) {
	handler := testHandler(t, &fakeGroups{err: assets.ErrNoRecord})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, widgetGet("/api/v1/widgets/downtime?group=A"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var widget rollupapp.DowntimeWidget
	if err := json.Unmarshal(rec.Body.Bytes(), &widget); err != nil {
		t.Fatalf("decode widget: %v", err)
	}
	if widget.Population != 0 || len(widget.Bands) != 0 {
		t.Fatalf("expected empty widget, got %+v", widget)
	}
}

func TestAlarmsWidget(t *testing.T) {
	group := &assets.Group{Name: "A", Assets: []assets.Asset{
		{ID: uuid.New(), AssetName: "WELL-01", IndustryApplicationID: assets.ApplicationESP},
	}}
	handler := testHandler(t, &fakeGroups{group: group})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, widgetGet("/api/v1/widgets/alarms?group=A"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var widget rollupapp.AlarmWidget
	if err := json.Unmarshal(rec.Body.Bytes(), &widget); err != nil {
		t.Fatalf("decode widget: %v", err)
	}
	if len(widget.Alarms) != 1 || widget.Alarms[0].Percent != 100 {
		t.Fatalf("unexpected widget %+v", widget)
	}
}
