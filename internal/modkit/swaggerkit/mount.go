// Package swaggerkit serves the OpenAPI document and swagger UI
package swaggerkit

import (
	"net/http"

	"weightwise/internal/modkit/httpkit"
	phttp "weightwise/internal/platform/net/http"
)

// DocsPrefix is where the UI and doc.json live
const DocsPrefix = "/api/docs"

// Mount the swagger UI and JSON spec if enabled
func Mount(r httpkit.Router, enabled bool, info Info) {
	if !enabled {
		return
	}
	r.Get(DocsPrefix+"/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		phttp.JSON(w, http.StatusOK, Doc(info))
	})
	phttp.MountSwagger(r, DocsPrefix, true)
}
