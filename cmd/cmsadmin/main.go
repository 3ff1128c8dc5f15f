package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCommand builds the cmsadmin command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cmsadmin",
		Short: "Content Modeling API administration client",
		Long: `Command line client for the Content Modeling API.

Manages content types and entries, runs bulk actions with interactive
confirmation and applies database migrations.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("api", getEnv("CMS_API_URL", "http://localhost:8080"), "API base URL")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewTypesCommand())
	rootCmd.AddCommand(NewEntriesCommand())
	rootCmd.AddCommand(NewBulkCommand())
	rootCmd.AddCommand(NewPublishDueCommand())
	rootCmd.AddCommand(NewMigrateCommand())

	return rootCmd
}

// clientFromFlags creates an API client from the --api flag
func clientFromFlags(cmd *cobra.Command) *Client {
	baseURL, _ := cmd.Flags().GetString("api")
	return NewClient(baseURL)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
