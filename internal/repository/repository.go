// Package repository persists departments and employees.
//
// Each repository owns an identity map so that, within one session, every
// lookup of a given id returns the same *Department or *Employee pointer.
// Field assignments are validated on the record itself; a rejected value
// returns a *ValidationError and leaves the previous value in place.
//
// Sessions are not safe for concurrent use. Open one per request or per
// command with NewRepositories.
package repository
