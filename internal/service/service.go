// Package service contains the business logic.
//
// It sits between the handler and repository layers. Every call opens its
// own repository session, so identity maps never outlive a request and are
// never shared between goroutines.
package service
