package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build info - injected via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "acolors",
	Short:         "AColoRS control daemon",
	Long:          `AColoRS is a local control service for proxy-client cores, driven over gRPC.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// runtimeError distinguishes serve-time failures (exit 1) from argument
// errors (exit 2).
type runtimeError struct {
	err error
}

func (e runtimeError) Error() string { return e.err.Error() }
func (e runtimeError) Unwrap() error { return e.err }

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var rerr runtimeError
		if errors.As(err, &rerr) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
