package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mediactl",
	Short: "Operator CLI for the media gateway storage backend",
	Long: `mediactl talks to the configured storage backend directly, through the same
upload engine the gateway uses, without a metadata database.

It reads the gateway's environment (MEDIA_STORAGE_BACKEND, MEDIA_S3_*, ...)
and is meant for smoke-testing storage credentials.

Examples:
  mediactl upload ./clip.mp4 --folder feed
  mediactl presign feed/0b6f....mp4 --ttl 1h
  mediactl delete feed/0b6f....mp4`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		return loadEnvFile(envFile)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(presignCmd)
	rootCmd.AddCommand(deleteCmd)

	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file to load when present")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log engine events to stderr")
}
