// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver, and ships the embedded schema.
//
// Every store is a thin specialization of baseStore, which owns the
// existence checks, id assignment, insert-and-read-back, partial updates
// and the mapping of driver failures onto store error kinds.
package postgres
