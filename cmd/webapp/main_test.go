package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agomusio/no-more-configs/internal/webapp"
)

func TestLocalServerURL(testInstance *testing.T) {
	testCases := []struct {
		name          string
		listenAddress string
		expectedURL   string
	}{
		{name: "default_address", listenAddress: webapp.DefaultAddressConstant, expectedURL: "http://localhost:3000"},
		{name: "port_only", listenAddress: ":8080", expectedURL: "http://localhost:8080"},
		{name: "ipv6_host", listenAddress: "[::1]:4000", expectedURL: "http://localhost:4000"},
		{name: "missing_port", listenAddress: "example.test", expectedURL: "http://example.test"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedURL, localServerURL(testCase.listenAddress))
		})
	}
}

func TestRootCommandDefaults(testInstance *testing.T) {
	rootCommand := newRootCommand()

	require.Equal(testInstance, webapp.DefaultAddressConstant, rootCommand.Flags().Lookup(addressFlagNameConstant).DefValue)
	require.Equal(testInstance, webapp.DefaultPublicDirectoryConstant, rootCommand.Flags().Lookup(publicFlagNameConstant).DefValue)
	require.Equal(testInstance, "info", rootCommand.Flags().Lookup(logLevelFlagNameConstant).DefValue)
}

func TestRootCommandRejectsUnsupportedLogLevel(testInstance *testing.T) {
	rootCommand := newRootCommand()
	output := &bytes.Buffer{}
	rootCommand.SetOut(output)
	rootCommand.SetArgs([]string{"--log-level", "verbose"})

	executionError := rootCommand.Execute()

	require.ErrorContains(testInstance, executionError, "unable to create logger")
	require.Empty(testInstance, output.String())
}
