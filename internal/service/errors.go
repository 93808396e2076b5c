package service

import "errors"

var (
	ErrValidation = errors.New("validation")       // 400
	ErrNotFound   = errors.New("not found")        // 404
	ErrConflict   = errors.New("conflict")         // 409
	ErrUpstream   = errors.New("upstream")         // 500, rolled back pre-commit
	ErrProcessing = errors.New("processing error") // 500, payment already settled
)
