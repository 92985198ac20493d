package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/updater/internal/cli"
	"github.com/vvka-141/updater/pkg/updater"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(updater.ExitPanic)
		}
	}()

	if os.Getenv("UPDATER_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(updater.ExitCodeForError(err))
	}
}
