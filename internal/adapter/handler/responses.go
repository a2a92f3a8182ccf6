package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rl1809/storefront/internal/adapter/catalog"
	"github.com/rl1809/storefront/pkg/logger"
)

const (
	codeValidation = "VALIDATION_ERROR"
	codeNotFound   = "NOT_FOUND"
	codeUpstream   = "UPSTREAM_ERROR"
	codeInternal   = "INTERNAL_ERROR"
)

type successEnvelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// httpError carries what the error envelope needs.
type httpError struct {
	status  int
	code    string
	message string
	details any
	cause   error
}

func (e *httpError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *httpError) Unwrap() error {
	return e.cause
}

func validationError(message string, details any, cause error) *httpError {
	return &httpError{
		status:  http.StatusBadRequest,
		code:    codeValidation,
		message: message,
		details: details,
		cause:   cause,
	}
}

// toHTTPError maps catalog failures onto their own status and everything
// unknown onto a 500.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	if apiErr, ok := catalog.AsAPIError(err); ok {
		code := codeUpstream
		switch {
		case apiErr.Status == http.StatusNotFound:
			code = codeNotFound
		case apiErr.Status >= 400 && apiErr.Status < 500:
			code = codeValidation
		}
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return &httpError{
			status:  status,
			code:    code,
			message: apiErr.Message,
			details: apiErr.Data,
			cause:   err,
		}
	}

	return &httpError{
		status:  http.StatusInternalServerError,
		code:    codeInternal,
		message: "internal error",
		cause:   err,
	}
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, successEnvelope{Data: data})
}

func writeError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	he := toHTTPError(err)

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"status":     he.status,
			"error_code": he.code,
		})
		if he.status >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "request.rejected")
		}
	}

	writeJSON(w, he.status, errorEnvelope{Error: errorBody{
		Code:    he.code,
		Message: he.message,
		Details: he.details,
	}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
