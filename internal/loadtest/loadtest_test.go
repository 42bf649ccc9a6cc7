package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/fairshare/internal/adapters/http/api"
	app "github.com/okian/fairshare/internal/app"
	"github.com/okian/fairshare/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

func newServer() *httptest.Server {
	svc := app.New(app.WithLogger(logger.Nop()), app.WithParallelThreshold(50), app.WithWorkerCount(4))
	mux := http.NewServeMux()
	api.NewServer(svc, 1<<20, 100).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func testConfig(url string) *Config {
	return &Config{
		BaseURL: url,
		Trees:   20,
		Leaves:  200,
		Workers: 4,
		Timeout: 5 * time.Second,
		Seed:    1,
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running fairshare server", t, func() {
		srv := newServer()
		defer srv.Close()

		Convey("When running a load test for full rankings", func() {
			stats, err := Run(context.Background(), testConfig(srv.URL))

			Convey("Then every ranking should match the local solve", func() {
				So(err, ShouldBeNil)
				So(stats.TreesGenerated, ShouldEqual, 20)
				So(stats.Submitted, ShouldEqual, 20)
				So(stats.Successful, ShouldEqual, 20)
				So(stats.Mismatched, ShouldEqual, 0)
				So(stats.P99, ShouldBeGreaterThanOrEqualTo, stats.P50)
			})
		})

		Convey("When running with a limit", func() {
			cfg := testConfig(srv.URL)
			cfg.Limit = 10
			stats, err := Run(context.Background(), cfg)

			So(err, ShouldBeNil)
			So(stats.Successful, ShouldEqual, 20)
		})
	})
}

func TestRun_Mismatch(t *testing.T) {
	Convey("Given a server that returns a wrong ranking", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {})
		mux.HandleFunc("/solve", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(SolveResponse{Count: 1, Results: []Entry{{Rank: 1, Name: "x", Score: 1}}})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("Then the run should fail with every tree mismatched", func() {
			cfg := testConfig(srv.URL)
			cfg.Trees = 3
			stats, err := Run(context.Background(), cfg)

			So(errors.Is(err, ErrFailed), ShouldBeTrue)
			So(stats.Mismatched, ShouldEqual, 3)
		})
	})
}

func TestRun_Unhealthy(t *testing.T) {
	Convey("Given a server whose health check fails", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		_, err := Run(context.Background(), testConfig(srv.URL))
		So(err, ShouldNotBeNil)
	})
}

func TestVerifyOrdering(t *testing.T) {
	Convey("Given ranked entries", t, func() {
		Convey("Tied scores must share a rank", func() {
			So(verifyOrdering([]Entry{{1, "B", 5}, {1, "A", 5}, {2, "C", 1}}), ShouldBeNil)
			So(verifyOrdering([]Entry{{1, "B", 5}, {2, "A", 5}}), ShouldNotBeNil)
		})

		Convey("Scores must not increase", func() {
			So(errors.Is(verifyOrdering([]Entry{{1, "A", 1}, {2, "B", 2}}), ErrMismatch), ShouldBeTrue)
		})
	})
}

func TestPercentiles(t *testing.T) {
	Convey("Given latencies", t, func() {
		ds := make([]time.Duration, 0, 100)
		for i := 100; i >= 1; i-- {
			ds = append(ds, time.Duration(i)*time.Millisecond)
		}
		p50, p99 := percentiles(ds)
		So(p50, ShouldEqual, 51*time.Millisecond)
		So(p99, ShouldEqual, 100*time.Millisecond)

		p50, p99 = percentiles(nil)
		So(p50, ShouldEqual, time.Duration(0))
		So(p99, ShouldEqual, time.Duration(0))
	})
}
