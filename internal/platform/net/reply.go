package net

import (
	"errors"
	"net/http"
	"sync/atomic"

	perr "weightwise/internal/platform/errors"
)

// Envelope status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Wire is the response body shared by every transport
type Wire struct {
	Status    string         `json:"status"`
	Data      any            `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	Field     string         `json:"field,omitempty"`
	Fields    []string       `json:"fields,omitempty"`
	Code      perr.ErrorCode `json:"code,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Trace     []string       `json:"trace,omitempty"`
}

var exposeTrace atomic.Bool

// SetExposeTrace toggles the error chain on 5xx bodies; off unless the deployment opts in
func SetExposeTrace(on bool) { exposeTrace.Store(on) }

// ExposeTrace reports whether 5xx bodies carry the error chain
func ExposeTrace() bool { return exposeTrace.Load() }

// Success builds a 200 envelope
func Success(data any, reqID string) (int, Wire) {
	return http.StatusOK, Wire{Status: StatusSuccess, Data: data, RequestID: reqID}
}

// Failure maps err to its status and error envelope
func Failure(err error, reqID string) (int, Wire) {
	if err == nil {
		return Success(nil, reqID)
	}
	status, w := perr.HTTP(err)
	out := Wire{
		Status:    StatusError,
		Error:     w.Message,
		Field:     w.Field,
		Fields:    w.Fields,
		Code:      w.Code,
		RequestID: reqID,
	}
	if status >= http.StatusInternalServerError && ExposeTrace() {
		out.Trace = Trace(err)
	}
	return status, out
}

// Trace flattens the wrap chain, outermost first
func Trace(err error) []string {
	var out []string
	for err != nil {
		out = append(out, err.Error())
		err = errors.Unwrap(err)
	}
	return out
}
