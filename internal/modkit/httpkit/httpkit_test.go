package httpkit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"weightwise/internal/platform/config"
	phttp "weightwise/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type echoIn struct {
	Name *string `json:"name" validate:"required"`
}

func newRouter() Router { return phttp.AdaptChi(chi.NewRouter()) }

func do(r Router, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rr
}

func TestCall_PassesResponsesThrough(t *testing.T) {
	t.Parallel()

	r := newRouter()
	Get(r, "/data", func(*http.Request) (any, error) { return map[string]int{"n": 1}, nil })
	Get(r, "/text", func(*http.Request) (any, error) { return PlainText(http.StatusOK, "service ready"), nil })
	r.Get("/fail", Call(func(*http.Request) (any, error) { return nil, errors.New("boom") }))

	if rr := do(r, http.MethodGet, "/data", ""); rr.Code != 200 || !strings.Contains(rr.Body.String(), `"data":{"n":1}`) {
		t.Fatalf("data => %d %q", rr.Code, rr.Body.String())
	}
	if rr := do(r, http.MethodGet, "/text", ""); rr.Body.String() != "service ready" {
		t.Fatalf("text => %q", rr.Body.String())
	}
	if rr := do(r, http.MethodGet, "/fail", ""); rr.Code != 500 || !strings.Contains(rr.Body.String(), `"status":"error"`) {
		t.Fatalf("fail => %d %q", rr.Code, rr.Body.String())
	}
}

func TestPostJSON_BindsAndValidates(t *testing.T) {
	t.Parallel()

	r := newRouter()
	PostJSON(r, "/echo", func(_ *http.Request, in echoIn) (any, error) { return *in.Name, nil })

	if rr := do(r, http.MethodPost, "/echo", `{"name":"x"}`); rr.Code != 200 || !strings.Contains(rr.Body.String(), `"data":"x"`) {
		t.Fatalf("ok => %d %q", rr.Code, rr.Body.String())
	}
	if rr := do(r, http.MethodPost, "/echo", `{}`); rr.Code != 400 || !strings.Contains(rr.Body.String(), `"field":"name"`) {
		t.Fatalf("missing => %d %q", rr.Code, rr.Body.String())
	}
}

func TestFallbacks(t *testing.T) {
	t.Parallel()

	r := newRouter()
	Fallbacks(r)
	Get(r, "/only-get", func(*http.Request) (any, error) { return "ok", nil })

	if rr := do(r, http.MethodGet, "/missing", ""); rr.Code != 404 || rr.Body.String() != "{\"error\":\"Endpoint not found\"}\n" {
		t.Fatalf("404 => %d %q", rr.Code, rr.Body.String())
	}
	if rr := do(r, http.MethodPost, "/only-get", ""); rr.Code != 405 {
		t.Fatalf("405 => %d %q", rr.Code, rr.Body.String())
	}
}

func TestCommonStack(t *testing.T) {
	t.Setenv("STACKTEST_MAX_INFLIGHT", "4")
	if n := len(CommonStack(config.New().Prefix("STACKTEST_"))); n != 3 {
		t.Fatalf("stack with throttle = %d", n)
	}
	if n := len(CommonStack(config.New().Prefix("STACKTEST_UNSET_"))); n != 2 {
		t.Fatalf("default stack = %d", n)
	}
}
