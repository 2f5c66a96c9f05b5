package fileserver

import (
	"errors"
	"net/http"
	"strconv"
)

// Error classes produced while handling a request. Filesystem errors are
// wrapped into one of these where the call is issued so that a single
// status mapping applies at the response boundary.
var (
	ErrBadRequest = errors.New("bad request")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrInternal   = errors.New("internal error")
)

// StatusOf maps an error to the HTTP status it is reported with.
// Unclassified errors are internal errors.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the plain-text body sent for an error status, e.g. "404 Not Found".
func ErrorBody(status int) string {
	return strconv.Itoa(status) + " " + http.StatusText(status)
}

// WriteError writes the plain-text error response for status.
func WriteError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(ErrorBody(status)))
}
