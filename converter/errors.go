package converter

import "errors"

// ErrInvalidInput indicates that the input does not have the required ADF
// document shape (wrong root type, non-object input). Returned only in
// strict mode; best-effort conversions degrade instead.
var ErrInvalidInput = errors.New("invalid ADF input")

// ErrValidation indicates that structural validation failed in strict mode.
var ErrValidation = errors.New("ADF validation failed")
