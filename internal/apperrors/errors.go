package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrUpstreamUnavailable indicates that a rate provider could not be reached
// (connection failure or timeout).
var ErrUpstreamUnavailable = errors.New("upstream provider unavailable")

// ErrUpstreamStatus indicates that a rate provider answered with a non-success
// HTTP status.
var ErrUpstreamStatus = errors.New("upstream provider returned error status")

// ErrSchemaMismatch indicates that a rate provider response was missing an
// expected field or carried an unexpected type.
var ErrSchemaMismatch = errors.New("upstream response schema mismatch")

// ErrInterrupted indicates that an in-flight provider call was cancelled
// before it completed.
var ErrInterrupted = errors.New("request interrupted")
