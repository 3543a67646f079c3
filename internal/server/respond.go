package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/observability"
)

const maxBody = 1 << 20

type errorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps error codes to HTTP statuses.
func statusOf(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidID:
		return http.StatusBadRequest
	case errs.ErrCodeInvalidCoordinate, errs.ErrCodeInvalidTemplate, errs.ErrCodeInvalidPatch,
		errs.ErrCodeNestedContainer, errs.ErrCodeIncompatibleDrop:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeCapacityExceeded, errs.ErrCodeLastRow, errs.ErrCodeStaleSource:
		return http.StatusConflict
	case errs.ErrCodeNotFound, errs.ErrCodeCardNotFound, errs.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errs.ErrCodeNoChange:
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	status := statusOf(code)
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		observability.Logger(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func decode(r *http.Request, v any) error {
	return decodeBody(r, v, false)
}

// decodeOptional is decode for endpoints whose body may be empty.
func decodeOptional(r *http.Request, v any) error {
	return decodeBody(r, v, true)
}

func decodeBody(r *http.Request, v any, optional bool) error {
	if r.Body == nil {
		if optional {
			return nil
		}
		return errs.New(errs.ErrCodeInvalidInput, "request body is empty")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			if optional {
				return nil
			}
			return errs.New(errs.ErrCodeInvalidInput, "request body is empty")
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
