package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build-time version identity, injected via -ldflags:
//
//	go build -ldflags="-X main.commitHash=${COMMIT_HASH} -X main.buildTime=$(date -u +%Y%m%dT%H%M%SZ)"
//
// In development (go run), the defaults "dev" and "unknown" are used.
var (
	commitHash = "dev"
	buildTime  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build commit and time",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "file-server %s (built %s)\n", commitHash, buildTime)
	},
}
