package apperrors

import "errors"

// ErrNotFound indicates that a requested dossier could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks. The
// normalizer's missing-identifier contract surfaces as this error once it
// crosses the service boundary.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")
