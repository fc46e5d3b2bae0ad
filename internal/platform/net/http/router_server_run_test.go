package http_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weightwise/internal/platform/config"
	phttp "weightwise/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestServer_RunAndShutdown(t *testing.T) {
	t.Setenv("RUNTEST_API_PORT", "127.0.0.1:0")

	optCalled := false
	srv := phttp.NewServer(config.New().Prefix("RUNTEST_"), func(*chi.Mux) { optCalled = true })
	if !optCalled {
		t.Fatalf("expected NewServer option to be called")
	}

	r := srv.Router()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-MW", "yes")
			next.ServeHTTP(w, req)
		})
	})
	r.Group(func(gr phttp.Router) {
		gr.Get("/group/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })
	})
	r.Post("/m", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	recG := httptest.NewRecorder()
	r.Mux().ServeHTTP(recG, httptest.NewRequest("GET", "/group/ping", nil))
	if recG.Code != http.StatusOK || recG.Body.String() != "pong" || recG.Header().Get("X-MW") != "yes" {
		t.Fatalf("unexpected /group/ping: %d %q", recG.Code, recG.Body.String())
	}
	recPost := httptest.NewRecorder()
	r.Mux().ServeHTTP(recPost, httptest.NewRequest("POST", "/m", nil))
	if recPost.Code != http.StatusCreated {
		t.Fatalf("post adapter failed: %d", recPost.Code)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Shutdown")
	}
}

func TestServer_RunStopsOnContextCancel(t *testing.T) {
	t.Setenv("CTXTEST_API_PORT", "127.0.0.1:0")
	t.Setenv("CTXTEST_SHUTDOWN_TIMEOUT", "1s")
	srv := phttp.NewServer(config.New().Prefix("CTXTEST_"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestServer_Run_ReturnsListenError(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer taken.Close()

	t.Setenv("BUSYTEST_API_PORT", taken.Addr().String())
	srv := phttp.NewServer(config.New().Prefix("BUSYTEST_"))
	if err := srv.Run(context.Background()); err == nil {
		t.Fatalf("expected Run to fail on a taken port")
	}
}
