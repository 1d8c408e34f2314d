package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/apkforge/manifmerge/internal/cli"
	"github.com/apkforge/manifmerge/pkg/manifmerge"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(manifmerge.ExitPanic)
		}
	}()

	if os.Getenv("MANIFMERGE_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(manifmerge.ExitCodeForError(err))
	}
}
