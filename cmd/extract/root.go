package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "siret-extractor",
		Short: "Find the SIRET and SIREN numbers published by a website",
		Long: `siret-extractor crawls the legal pages of a French company website,
extracts the SIRET and SIREN numbers they contain and enriches them with
the company registry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewHashKeyCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
