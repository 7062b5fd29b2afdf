package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daap14/quotator/internal/api/response"
	"github.com/daap14/quotator/internal/api/validation"
)

const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeBody decodes a JSON request body holding exactly one value into dst.
// On failure it writes a 400 response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		err = expectEOF(dec)
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Err(w, http.StatusBadRequest, response.CodeInvalidJSON, "Request body must not exceed 1 MiB", requestID)
			return false
		}
		response.Err(w, http.StatusBadRequest, response.CodeInvalidJSON, "Request body must be valid JSON", requestID)
		return false
	}
	return true
}

// expectEOF fails unless only whitespace follows the decoded value.
func expectEOF(dec *json.Decoder) error {
	err := dec.Decode(&struct{}{})
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return errTrailingData
	}
	return err
}

// pathUUID parses the named chi URL parameter as a UUID. On failure it
// writes a 400 response and returns false.
func pathUUID(w http.ResponseWriter, r *http.Request, name, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.Err(w, http.StatusBadRequest, response.CodeInvalidID, name+" must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}

// validateBody runs struct validation on req. On failure it writes a 400
// response and returns false.
func validateBody(w http.ResponseWriter, req any, requestID string) bool {
	if fieldErrors := validation.Struct(req); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, response.CodeValidationError, "Input validation failed", fieldErrors, requestID)
		return false
	}
	return true
}

// writeParamError answers a malformed query parameter.
func writeParamError(w http.ResponseWriter, err error, requestID string) {
	response.Err(w, http.StatusBadRequest, response.CodeInvalidParam, err.Error(), requestID)
}
