// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/center-roll/middleware"
	"github.com/danielhkuo/center-roll/store"
)

// storeError writes the response for an error returned by the store.
// Unexpected errors are logged and reported as 500 with failMsg.
func storeError(w http.ResponseWriter, r *http.Request, err error, failMsg string) {
	switch {
	case errors.Is(err, store.ErrInvalidInput), errors.Is(err, store.ErrBarcodeRequired):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrDuplicateBarcode), errors.Is(err, store.ErrDuplicateCenter):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		slog.Error(failMsg,
			"error", err,
			"request_id", middleware.RequestID(r.Context()),
		)
		middleware.ErrorResponse(w, http.StatusInternalServerError, failMsg)
	}
}

// pathID parses the {id} path value, writing a 400 when it is not a
// positive integer
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
