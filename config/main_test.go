package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain refuses to run the config package tests unless GO_ENV=test, since
// several of them overwrite the global DB and config instances.
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "config tests must run with GO_ENV=test (current: %q)\n", env)
		os.Exit(1)
	}

	os.Exit(m.Run())
}
