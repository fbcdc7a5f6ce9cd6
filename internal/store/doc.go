// Package store defines the persistence contracts for the workout
// aggregates, the error kinds every implementation reports, and the
// transaction helper shared by multi-store use cases.
package store
