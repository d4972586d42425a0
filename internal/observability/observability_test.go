package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-service/internal/config"
)

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "chatty"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !logger.Core().Enabled(zap.InfoLevel) || logger.Core().Enabled(zap.DebugLevel) {
		t.Error("expected info level")
	}
}

func TestLookupHookCountsHitsAndMisses(t *testing.T) {
	m := NewMetrics("hr")
	hook := m.LookupHook("department")
	hook(true)
	hook(true)
	hook(false)

	if got := testutil.ToFloat64(m.identityLookups.WithLabelValues("department", "hit")); got != 2 {
		t.Errorf("expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(m.identityLookups.WithLabelValues("department", "miss")); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "NOT_FOUND")
	m.RecordEvent("department.created")
	m.LookupHook("review")(true)
}

func TestRequestLoggerRecordsRoute(t *testing.T) {
	m := NewMetrics("hr")
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/api/departments/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/departments/3", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("expected request id header")
	}
	if got := testutil.ToFloat64(m.requestCount.WithLabelValues("/api/departments/:id", "GET", "204")); got != 1 {
		t.Errorf("expected one recorded request, got %v", got)
	}
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics("hr")
	m.RecordEvent("review.created")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `hr_events_published_total{type="review.created"} 1`) {
		t.Errorf("expected event counter in output:\n%s", body)
	}
}
