package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrew/clickup-rag/pkg/app"
	"github.com/andrew/clickup-rag/pkg/config"
)

// Version is injected at build time
var Version = "dev"

func main() {
	if err := Execute(Version, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version string, args []string) error {
	rootCmd := &cobra.Command{
		Use:           "clickup-rag",
		Short:         "Index ClickUp tasks into a vector store and query them",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(&cobra.Command{
		Use:   "ingest",
		Short: "Ingest every visible team and space into the vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return app.RunIngest(context.Background(), settings)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "query",
		Short: "Interactively query an ingested namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return app.RunQuery(context.Background(), settings)
		},
	})

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, err := config.LoadSettingsWithFlags(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if err := config.ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}
