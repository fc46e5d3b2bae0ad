package http

import "net/http"

// GetJSON mounts a read-only route whose fn result becomes the success envelope
// a Response returned as the value passes through, which is how readiness answers 503 with data
func GetJSON(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(fn))
}

// PostJSON mounts a route that binds the body into T first
// schema failures answer 400 naming the field and fn never runs for them
func PostJSON[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandler(fn))
}
