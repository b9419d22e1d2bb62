package errors

import (
	"errors"
	"net/http"

	"github.com/jobly/jobly-api/db"
)

// StatusCode returns the HTTP status that should be reported for err.
func StatusCode(err error) int {
	var (
		badRequest   *BadRequestError
		unauthorized *UnauthorizedError
		notFound     *NotFoundError
		conflict     *ConflictError
		storeErr     *db.Error
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &storeErr):
		return storeStatusCode(storeErr.Kind)
	}
	return http.StatusInternalServerError
}

func storeStatusCode(kind error) int {
	switch kind {
	case db.ErrNotFound:
		return http.StatusNotFound
	case db.ErrInvalidCredentials:
		return http.StatusUnauthorized
	case db.ErrDuplicateKey:
		return http.StatusConflict
	}
	return http.StatusBadRequest
}
