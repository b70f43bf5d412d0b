package handler

// Every handler replies through writeJSON or writeError, so the API has one
// success shape and one error shape:
//
//	{"error": "not_found", "message": "user not found with id 7"}

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/user-api/internal/apperror"
)

const maxBodyBytes = 1 << 20

const internalMessage = "An internal error occurred"

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation: http.StatusBadRequest,
	apperror.KindNotFound:   http.StatusNotFound,
	apperror.KindConflict:   http.StatusConflict,
	apperror.KindInternal:   http.StatusInternalServerError,
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Status is already on the wire.
		slog.Error("encoding response", slog.Int("status", status), slog.String("error", err.Error()))
	}
}

// writeError sends the status for err's kind. Internal errors get a fixed
// message so storage details never reach the client.
func writeError(w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)
	writeJSON(w, statusByKind[kind], ErrorResponse{
		Error:   string(kind),
		Message: apperror.Message(err, internalMessage),
	})
}

// decodeJSON fills dst from the request body. An empty body is not an error:
// dst stays zero and schema validation reports what is missing.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	err := dec.Decode(dst)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case errors.As(err, &tooLarge):
		return apperror.ValidationFailed("body", "request body too large")
	default:
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
}
