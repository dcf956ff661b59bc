// Package errs defines the error shapes returned to API clients.
//
// Every failure that reaches the HTTP layer is converted into an *HTTPError
// so clients always receive the same JSON structure, optionally carrying
// field-level errors for rejected input.
package errs
