package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vk/varflow/internal/app"
	"github.com/vk/varflow/internal/cli"
	"github.com/vk/varflow/internal/hcladapter"
)

// main is the entrypoint for the varflow application.
func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors, so we recover here to
	// provide a clean exit message to the user.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "A critical startup error occurred: %v\n", r)
			os.Exit(1)
		}
	}()

	loader := hcladapter.NewLoader()
	varflowApp := app.NewApp(outW, appConfig, loader)

	return varflowApp.Run(context.Background(), appConfig)
}
