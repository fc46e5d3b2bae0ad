package httpkit

import (
	"net/http"
	"time"

	"weightwise/internal/platform/config"
	"weightwise/internal/platform/net/middleware"
)

// CommonStack returns the per request stack mounted after the server defaults
// reads CORS_ORIGINS, SLOW_REQUEST and MAX_INFLIGHT from cfg
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	stack := []func(http.Handler) http.Handler{
		middleware.AccessLog(middleware.AccessLogOptions{
			Slow: cfg.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
		}),
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
		}),
	}
	if n := cfg.MayInt("MAX_INFLIGHT", 0); n > 0 {
		stack = append(stack, middleware.Throttle(n, n, 5*time.Second))
	}
	return stack
}
