package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	app "github.com/okian/skillmerge/internal/app"
	"github.com/okian/skillmerge/internal/config"
	"github.com/okian/skillmerge/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewMux(t *testing.T) {
	convey.Convey("Given the server mux built from defaults", t, func() {
		ctx := context.Background()
		cfg := config.New()
		svc := app.New(app.WithConfig(cfg))
		mux := newMux(ctx, cfg, svc)

		cases := []struct {
			method string
			path   string
			status int
		}{
			{http.MethodGet, "/healthz", http.StatusOK},
			{http.MethodGet, "/stats", http.StatusOK},
			{http.MethodGet, "/openapi.yaml", http.StatusOK},
			{http.MethodGet, "/api-docs", http.StatusOK},
			{http.MethodGet, "/merge", http.StatusMethodNotAllowed},
			{http.MethodGet, "/nope", http.StatusNotFound},
		}

		convey.Convey("Then every route answers", func() {
			for _, c := range cases {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(c.method, c.path, http.NoBody))
				convey.So(rec.Code, convey.ShouldEqual, c.status)
			}
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given an invalid configuration", t, func() {
		t.Setenv("SKILLMERGE_MAX_FILES", "0")

		convey.Convey("Then run fails before serving", func() {
			err := run(context.Background())
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given an address that cannot be bound", t, func() {
		t.Setenv("SKILLMERGE_ADDR", ":-1")

		convey.Convey("Then run returns the listen error", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			convey.So(run(ctx), convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given a cancelled context", t, func() {
		t.Setenv("SKILLMERGE_ADDR", "127.0.0.1:0")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		convey.Convey("Then run shuts down cleanly", func() {
			convey.So(run(ctx), convey.ShouldBeNil)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.Convey("Then it refreshes gauges and stops with its context", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}

func TestMetricsOptions(t *testing.T) {
	convey.Convey("Given metrics settings in the configuration", t, func() {
		cfg := config.New()
		cfg.MetricsNamespace = "acme"
		cfg.MetricsSubsystem = "skills"
		cfg.MetricsPrefix = "v2"
		cfg.MetricsLabels = map[string]string{"site": "eu"}
		cfg.MetricsLatencyBucketsMS = []float64{10, 100}

		registry := prometheus.NewRegistry()
		metrics.NewManager(append(metricsOptions(cfg), metrics.WithPrometheusRegistry(registry))...)
		families, err := registry.Gather()
		convey.So(err, convey.ShouldBeNil)

		byName := map[string]int{}
		for _, f := range families {
			byName[f.GetName()] = len(f.GetMetric())
			if f.GetName() == "acme_skills_v2_parse_latency_milliseconds" {
				m := f.GetMetric()[0]
				convey.So(m.GetHistogram().GetBucket(), convey.ShouldHaveLength, 2)
				convey.So(m.GetLabel()[0].GetName(), convey.ShouldEqual, "site")
			}
		}

		convey.Convey("Then the manager uses them for names, labels and buckets", func() {
			convey.So(byName, convey.ShouldContainKey, "acme_skills_v2_files_received_total")
			convey.So(byName, convey.ShouldContainKey, "acme_skills_v2_parse_latency_milliseconds")
		})
	})
}
