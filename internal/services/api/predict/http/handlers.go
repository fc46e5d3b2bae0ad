// Package http provides http transport for predictions
package http

import (
	stdhttp "net/http"

	"weightwise/internal/modkit/httpkit"
	"weightwise/internal/services/api/predict/domain"
	svc "weightwise/internal/services/api/predict/service"
)

// ReadyText is the body of a successful readiness probe
const ReadyText = "service ready"

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	r.Get("/", httpkit.Handle(h.root))
	httpkit.PostJSON[domain.PredictInput](r, "/predict", h.predict)
}

type handlers struct{ svc svc.Service }

// GET / answers in plain text so load balancers can match on the body
func (h *handlers) root(_ *stdhttp.Request) httpkit.Response {
	if err := h.svc.Ready(); err != nil {
		return httpkit.Error(err)
	}
	return httpkit.PlainText(stdhttp.StatusOK, ReadyText)
}

// POST /predict
func (h *handlers) predict(r *stdhttp.Request, in domain.PredictInput) (any, error) {
	return h.svc.Predict(r.Context(), in.Record())
}
