package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agomusio/no-more-configs/internal/utils"
	"github.com/agomusio/no-more-configs/internal/webapp"
)

const (
	commandUseConstant                  = "webapp"
	commandShortDescriptionConstant     = "Serve the fixture web application"
	addressFlagNameConstant             = "address"
	addressFlagUsageConstant            = "Listen address."
	publicFlagNameConstant              = "public"
	publicFlagUsageConstant             = "Directory served as static files."
	logLevelFlagNameConstant            = "log-level"
	logLevelFlagUsageConstant           = "Log level."
	serverStartedTemplateConstant       = "Server running at %s\n"
	localURLTemplateConstant            = "http://localhost:%s"
	addressURLTemplateConstant          = "http://%s"
	serverStoppingMessageConstant       = "shutting down fixture server"
	loggerCreationErrorTemplateConstant = "unable to create logger: %w"
	serverErrorTemplateConstant         = "fixture server failed: %w"
	exitErrorTemplateConstant           = "%v\n"
)

func main() {
	executionContext, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if executionError := newRootCommand().ExecuteContext(executionContext); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var listenAddress string
	var publicDirectory string
	var logLevel string

	rootCommand := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			logger, loggerError := utils.NewLoggerFactory().CreateLogger(utils.LogLevel(logLevel), utils.LogFormatConsole)
			if loggerError != nil {
				return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerError)
			}
			defer func() { _ = logger.Sync() }()
			return serve(command, logger, listenAddress, publicDirectory)
		},
	}

	rootCommand.Flags().StringVar(&listenAddress, addressFlagNameConstant, webapp.DefaultAddressConstant, addressFlagUsageConstant)
	rootCommand.Flags().StringVar(&publicDirectory, publicFlagNameConstant, webapp.DefaultPublicDirectoryConstant, publicFlagUsageConstant)
	rootCommand.Flags().StringVar(&logLevel, logLevelFlagNameConstant, string(utils.LogLevelInfo), logLevelFlagUsageConstant)
	return rootCommand
}

func serve(command *cobra.Command, logger *zap.Logger, listenAddress string, publicDirectory string) error {
	app := webapp.NewApp(webapp.Options{PublicDirectory: publicDirectory, Logger: logger})

	go func() {
		<-command.Context().Done()
		logger.Info(serverStoppingMessageConstant)
		_ = app.Shutdown()
	}()

	fmt.Fprintf(command.OutOrStdout(), serverStartedTemplateConstant, localServerURL(listenAddress))

	if listenError := app.Listen(listenAddress); listenError != nil && !errors.Is(listenError, context.Canceled) {
		return fmt.Errorf(serverErrorTemplateConstant, listenError)
	}
	return nil
}

// localServerURL maps a listen address to the URL a local browser should open.
// Addresses without a port are printed as given.
func localServerURL(listenAddress string) string {
	_, port, splitError := net.SplitHostPort(listenAddress)
	if splitError != nil || len(port) == 0 {
		return fmt.Sprintf(addressURLTemplateConstant, listenAddress)
	}
	return fmt.Sprintf(localURLTemplateConstant, port)
}
