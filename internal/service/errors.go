package service

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated") // 401
	ErrForbidden       = errors.New("forbidden")       // 403
	ErrValidation      = errors.New("validation")      // 400
	ErrNotFound        = errors.New("not found")       // 404
	ErrConflict        = errors.New("conflict")        // 409
	ErrUpstream        = errors.New("upstream")        // 502
)
