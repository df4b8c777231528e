// Package main is the entry point for the trenchturn server and tools
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/trenchturn/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "trenchturn",
	Short: "Trench warfare turn engine",
	Long:  `trenchturn coordinates planning, execution and resolution of tactical turns over gRPC.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
