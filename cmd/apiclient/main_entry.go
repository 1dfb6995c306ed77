//go:build !testcoverage

package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	cfg := DefaultConfig()
	err := run(os.Args, cfg)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(cfg.Stderr, "error:", err)
	}
	os.Exit(exitCode(err))
}
