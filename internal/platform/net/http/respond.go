// Package http provides the router seam, server and return-style response helpers
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "weightwise/internal/platform/errors"
	"weightwise/internal/platform/logger"
	pnet "weightwise/internal/platform/net"
)

// Fallback messages for unmatched routes
const (
	MsgNotFound         = "Endpoint not found"
	MsgMethodNotAllowed = "Method not allowed"
)

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError maps err onto the error envelope and writes it
// used by middleware that has no Response to return
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	Error(err).write(w, r)
}

// Text is a plain text body, written as is
type Text string

// bare bodies skip the envelope
type bare struct{ v any }

// Response is a functional response object for return-style handlers
type Response struct {
	Status int
	Body   any
	// optional headers if a handler wants to add any
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(stdhttp.StatusNoContent)
		return
	}

	reqID := pnet.RequestID(r.Context())

	switch body := resp.Body.(type) {
	case error:
		if body == nil {
			break
		}
		st, wire := pnet.Failure(body, reqID)
		if st >= stdhttp.StatusInternalServerError {
			logger.C(r.Context()).Error().
				Err(body).
				Int("status", st).
				Int("code", int(perr.CodeOf(body))).
				Str("path", r.URL.Path).
				Msg("request failed")
		}
		JSON(w, st, wire)
		return
	case Text:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	case bare:
		JSON(w, status, body.v)
		return
	}

	_, wire := pnet.Success(resp.Body, reqID)
	JSON(w, status, wire)
}

// OK returns a 200 success envelope
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error returns a response whose status and envelope come from err
func Error(err error) Response { return Response{Body: err} }

// PlainText returns a text/plain response
func PlainText(status int, s string) Response { return Response{Status: status, Body: Text(s)} }

// Bare returns v as JSON without the envelope
func Bare(status int, v any) Response { return Response{Status: status, Body: bare{v: v}} }

// NotFoundHandler answers unmatched paths with a small JSON body
func NotFoundHandler() Handler {
	return Handle(func(*stdhttp.Request) Response {
		return Bare(stdhttp.StatusNotFound, map[string]string{"error": MsgNotFound})
	})
}

// MethodNotAllowedHandler answers known paths hit with the wrong verb
func MethodNotAllowedHandler() Handler {
	return Handle(func(*stdhttp.Request) Response {
		return Bare(stdhttp.StatusMethodNotAllowed, map[string]string{"error": MsgMethodNotAllowed})
	})
}
