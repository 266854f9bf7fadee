package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/interview-coach/internal/answers"
	"github.com/jonathan/interview-coach/internal/live"
	"github.com/jonathan/interview-coach/internal/session"
	"github.com/jonathan/interview-coach/internal/types"
)

// RequestError indicates a malformed request body or parameter.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return "bad request: " + e.Message
}

// errorBody is the JSON error payload.
type errorBody struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Fields  []types.FieldError `json:"fields,omitempty"`
}

// classify maps an error to its HTTP status and machine-readable code.
func classify(err error) (int, string) {
	var verr *types.ValidationError
	var rerr *RequestError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "validation_failed"
	case errors.As(err, &rerr):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, live.ErrEmptyUtterance):
		return http.StatusBadRequest, "empty_utterance"
	case errors.Is(err, answers.ErrUnknownQuestion):
		return http.StatusNotFound, "unknown_question"
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, session.ErrStale):
		return http.StatusConflict, "stale"
	case errors.Is(err, session.ErrWrongStage):
		return http.StatusConflict, "wrong_stage"
	case errors.Is(err, live.ErrInvalidPhase):
		return http.StatusConflict, "invalid_phase"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	status, _ := classify(err)
	return status
}

func newErrorBody(err error) (int, errorBody) {
	status, code := classify(err)
	body := errorBody{Code: code, Message: err.Error()}
	if status == http.StatusInternalServerError {
		body.Message = "internal server error"
	}
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	return status, body
}
