package service

import "errors"

var (
	ErrAuth       = errors.New("auth")       // 401
	ErrForbidden  = errors.New("forbidden")  // 403
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrOrder      = errors.New("order")      // 500, placement rolled back
	ErrStorage    = errors.New("storage")    // 500
)
