package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/octobees/siret-extractor/internal/auth"
)

// NewHashKeyCmd creates the hash-key command.
func NewHashKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key [api-key]",
		Short: "Print the argon2id hash of an API key",
		Long: `Print the argon2id hash to store in SIRET_EXTRACTOR_API_KEY_HASH.
Without argument the key is read from the first line of standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readKey(cmd, args)
			if err != nil {
				return err
			}
			hash, err := auth.HashKey(key, auth.DefaultParams)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func readKey(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read api key: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
