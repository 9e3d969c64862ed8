package apperror

import (
	"errors"
	"net/http"
)

// Kind names a failure class of the content pipeline. The value is part of the
// JSON error payload, so it must stay stable.
type Kind string

const (
	KindMalformedModelOutput Kind = "MalformedModelOutput"
	KindIntentParse          Kind = "IntentParseError"
	KindPatchApply           Kind = "PatchApplyError"
	KindUpstreamModel        Kind = "UpstreamModelError"
	KindBadRequest           Kind = "BadRequest"
	KindNotFound             Kind = "NotFound"
	KindInternal             Kind = "Internal"
)

type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	// Raw is the unparseable model text, kept for diagnostics.
	Raw string `json:"raw,omitempty"`
	// Applied counts the changes that went through before a PatchApplyError.
	// They are not rolled back.
	Applied int   `json:"applied,omitempty"`
	Err     error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func MalformedModelOutput(raw string, err error) *AppError {
	e := New(http.StatusInternalServerError, KindMalformedModelOutput, "model output is not valid JSON", err)
	e.Raw = raw
	return e
}

func IntentParse(raw string, err error) *AppError {
	e := New(http.StatusInternalServerError, KindIntentParse, "could not parse requested changes", err)
	e.Raw = raw
	return e
}

func PatchApply(raw string, applied int, err error) *AppError {
	e := New(http.StatusInternalServerError, KindPatchApply, "could not apply change to portfolio", err)
	e.Raw = raw
	e.Applied = applied
	return e
}

func UpstreamModel(err error) *AppError {
	return New(http.StatusBadGateway, KindUpstreamModel, "model call failed", err)
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, KindBadRequest, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, KindInternal, "Internal Server Error", err)
}

// As unwraps err into an *AppError. Errors of any other type are reported
// as Internal.
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Is reports whether err carries an AppError of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
