package http

import "weightwise/internal/modkit/swaggerkit"

// Document adds the meta paths to the OpenAPI document
func Document(prefix string) swaggerkit.SpecMutator {
	return func(spec map[string]any) {
		obj := map[string]any{"type": "object"}
		for _, p := range []struct{ path, summary string }{
			{"/health", "Health check"},
			{"/ready", "Readiness with dependency checks"},
			{"/version", "Build and version info"},
			{"/service", "Service info and uptime"},
			{"/pipeline", "Loaded pipeline: artifact identity, stages, estimator"},
		} {
			swaggerkit.AddOperation(spec, prefix+p.path, "get", map[string]any{
				"summary":   p.summary,
				"tags":      []string{"Meta"},
				"responses": map[string]any{"200": swaggerkit.JSONBody("ok", obj)},
			})
		}
	}
}
