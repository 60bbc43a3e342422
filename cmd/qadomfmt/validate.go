package main

import (
	"fmt"

	"github.com/qadom/qadom"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	var strict, denyDup bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a JSON file; exit status reflects parse success",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			opts := []qadom.ParseOption{
				qadom.WithStrict(strict),
				qadom.WithDenyDuplicateKeys(denyDup),
			}

			maxSize, err := qadom.CalculateMaxBufferSize(data, opts...)
			if err != nil {
				if perr, ok := err.(*qadom.Error); ok {
					return fmt.Errorf("invalid: %s at offset %d", perr.Code, perr.Offset)
				}
				return err
			}
			_, _, perr := qadom.Parse(data, make([]byte, maxSize), opts...)
			if perr != nil {
				return fmt.Errorf("invalid: %w", perr)
			}
			fmt.Println("valid")
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "reject comments, leading zeros, and trailing commas")
	cmd.Flags().BoolVar(&denyDup, "deny-duplicate-keys", false, "reject objects with duplicate keys")
	return cmd
}
