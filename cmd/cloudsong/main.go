package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudsongbot/cloudsong/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "cloudsong",
		Short:   "Telegram bot that fetches songs on demand",
		Version: version.GetInfo(),
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
