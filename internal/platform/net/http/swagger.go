package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger mounts the swagger UI under prefix, reading the spec from prefix/doc.json
// callers serve doc.json themselves
func MountSwagger(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, prefix+"/", http.StatusPermanentRedirect)
	})
	r.Handle(prefix+"/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL(prefix+"/doc.json"),
	))
}
