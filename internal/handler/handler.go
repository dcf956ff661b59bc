// Package handler is the HTTP layer.
//
// Handlers bind and validate request payloads through the validation
// package, call the service layer and shape the JSON responses.
package handler
