// Package main is the entry point for the roster service
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/roster-api/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "roster-api",
	Short: "Roster API gRPC Server",
	Long:  `Roster API keeps a live, per-user creature roster and lets signed-in users assign moves to each entry's four slots.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
