package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	apihttp "liftops-cloud/internal/api/http"
	assetsrepo "liftops-cloud/internal/assets/infrastructure/postgres"
	"liftops-cloud/internal/audit"
	"liftops-cloud/internal/auth"
	"liftops-cloud/internal/cache"
	"liftops-cloud/internal/groupstatus/application"
	groupstatusrepo "liftops-cloud/internal/groupstatus/infrastructure/postgres"
	groupstatushttp "liftops-cloud/internal/groupstatus/interfaces/http"
	"liftops-cloud/internal/notifications"
	"liftops-cloud/internal/observability/metrics"
	"liftops-cloud/internal/phrases"
	rollupapp "liftops-cloud/internal/rollup/application"
	rolluprepo "liftops-cloud/internal/rollup/infrastructure/postgres"
	rolluphttp "liftops-cloud/internal/rollup/interfaces/http"
	"liftops-cloud/internal/settings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)
	viewChecker := auth.NewViewChecker(db)

	valueCache := cache.New(cache.DefaultTTL)
	settingsStore, err := settings.NewStore(db, valueCache)
	if err != nil {
		logger.Fatalf("settings store error: %v", err)
	}
	phraseStore, err := phrases.NewStore(db, valueCache)
	if err != nil {
		logger.Fatalf("phrase store error: %v", err)
	}
	engineCfg, err := application.LoadEngineConfig()
	if err != nil {
		logger.Fatalf("engine config error: %v", err)
	}
	engineSettings := &engineSettingsProvider{
		overlay:  engineCfg,
		settings: settingsStore,
		phrases:  phraseStore,
	}

	groupRepo := assetsrepo.NewGroupRepository(db)
	viewStore := groupstatusrepo.NewViewStore(db)
	metadataStore := groupstatusrepo.NewMetadataStore(db)
	sourceStore := groupstatusrepo.NewSourceStore(db, logger)

	groupStatusService, err := application.NewService(groupRepo, viewStore, metadataStore, sourceStore, engineSettings, logger)
	if err != nil {
		logger.Fatalf("group status service error: %v", err)
	}
	groupStatusHandler, err := groupstatushttp.NewHandler(groupStatusService, viewChecker)
	if err != nil {
		logger.Fatalf("group status handler error: %v", err)
	}
	exportHandler, err := groupstatushttp.NewExportHandler(groupStatusService, viewChecker, auditRepo)
	if err != nil {
		logger.Fatalf("export handler error: %v", err)
	}

	timeSeriesStore := rolluprepo.NewTimeSeriesStore(db)
	eventStore := rolluprepo.NewEventStore(db)
	widgetService, err := rollupapp.NewWidgetService(groupRepo, timeSeriesStore, eventStore, logger)
	if err != nil {
		logger.Fatalf("widget service error: %v", err)
	}
	widgetHandler, err := rolluphttp.NewHandler(widgetService)
	if err != nil {
		logger.Fatalf("widget handler error: %v", err)
	}

	notificationStore, err := notifications.NewStore(db)
	if err != nil {
		logger.Fatalf("notification store error: %v", err)
	}
	notificationHandler, err := notifications.NewHandler(notificationStore)
	if err != nil {
		logger.Fatalf("notification handler error: %v", err)
	}
	settingsHandler, err := settings.NewHandler(settingsStore)
	if err != nil {
		logger.Fatalf("settings handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/groupstatus", groupStatusHandler)
	mux.Handle("/api/v1/groupstatus/views", groupStatusHandler)
	mux.Handle("/api/v1/widgets/", widgetHandler)
	mux.Handle("/api/v1/exports/groupstatus.xlsx", exportHandler)
	mux.Handle("/api/v1/exports/groupstatus.pdf", exportHandler)
	mux.Handle("/api/v1/notifications", notificationHandler)
	mux.Handle("/api/v1/settings", settingsHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	handler := loggingMiddleware(apihttp.RequestIDMiddleware(authMiddleware.Wrap(mux)), logger)
	server := &http.Server{Addr: cfg.HTTPAddr, Handler: handler}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// ---- Adapters ----

// engineSettingsProvider resolves the view engine settings: the yaml overlay
// wins, then the system-parameter store, then the phrase defaults.
type engineSettingsProvider struct {
	overlay  application.EngineConfig
	settings *settings.Store
	phrases  *phrases.Store
}

func (p *engineSettingsProvider) TagMatchPolicy(ctx context.Context) int {
	if p.overlay.TagMatchPolicy != nil {
		return *p.overlay.TagMatchPolicy
	}
	return p.settings.TagMatchPolicy(ctx)
}

func (p *engineSettingsProvider) ShowValueWithText(ctx context.Context) bool {
	if p.overlay.ShowValueWithText != nil {
		return *p.overlay.ShowValueWithText
	}
	return p.settings.ShowValueWithText(ctx)
}

func (p *engineSettingsProvider) AlarmPhrases(ctx context.Context) (high, low string) {
	high = p.overlay.HighAlarmPhrase
	if high == "" {
		high = p.phrases.Lookup(ctx, phrases.PhraseHighAlarm, "High")
	}
	low = p.overlay.LowAlarmPhrase
	if low == "" {
		low = p.phrases.Lookup(ctx, phrases.PhraseLowAlarm, "Low")
	}
	return high, low
}
