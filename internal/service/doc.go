// Package service contains the application use cases. Each service
// coordinates domain aggregates and the store interfaces from
// internal/store, applies ownership and visibility rules, and opens a
// transaction when an operation spans several writes.
//
// Every error leaving this package is a *Error whose Kind tells the caller
// how to report it: Validation, NotFound, Forbidden, Conflict or Server.
// Translate performs the mapping from domain and store errors.
package service
