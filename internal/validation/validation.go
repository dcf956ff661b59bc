// Package validation binds request data and validates it.
//
// Rules are declared with `validate` struct tags on request types and
// checked with go-playground/validator; failures are converted into
// field-level errors the client can act on.
package validation
