package httpkit

import phttp "weightwise/internal/platform/net/http"

// Fallbacks answers unmatched paths with 404 and wrong verbs with 405, both as small JSON bodies
func Fallbacks(r Router) {
	r.NotFound(phttp.NotFoundHandler())
	r.MethodNotAllowed(phttp.MethodNotAllowedHandler())
}
