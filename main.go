package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/agomusio/no-more-configs/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the no-more-configs installer.
func main() {
	executionContext, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	executionError := cli.Execute(executionContext)
	stop()

	if executionError != nil {
		if !errors.Is(executionError, cli.ErrFailureReported) {
			fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		}
		os.Exit(1)
	}
}
