// Package main implements the lift command line tool, which applies the
// schema and runs the workout operations against the configured database.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
