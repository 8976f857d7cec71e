// Agsctl reconciles container images against Tencent AGS sandbox tools.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lirong-lirong/ags-tool/internal/ags"
	"github.com/lirong-lirong/ags-tool/internal/cmd/factory"
	"github.com/lirong-lirong/ags-tool/internal/cmd/root"
	"github.com/lirong-lirong/ags-tool/internal/cmdutil"
	"github.com/lirong-lirong/ags-tool/internal/logger"
)

// Set at build time via ldflags.
var (
	version = "dev"
	commit  = ""
)

func main() {
	os.Exit(run())
}

func run() int {
	defer logger.CloseFileWriter()

	f := factory.New(version, commit)
	rootCmd := root.NewCmdRoot(f)

	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return 0
	}

	var flagErr *cmdutil.FlagError
	switch {
	case errors.Is(err, cmdutil.SilentError):
		// Already reported.
	case errors.As(err, &flagErr):
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, cmd.UsageString())
	default:
		var apiErr *ags.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(os.Stderr, "agsctl: %s (request id %s)\n", apiErr.Message, apiErr.RequestID)
		} else {
			fmt.Fprintf(os.Stderr, "agsctl: %v\n", err)
		}
	}
	return 1
}
