// Package middleware holds the global HTTP middleware: request ids, the
// request-scoped logger, request logging, CORS, panic recovery and the
// global error handler.
package middleware
