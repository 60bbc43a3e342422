package main

import (
	"fmt"
	"os"

	"github.com/qadom/qadom"
	"github.com/spf13/cobra"
)

func printCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "print <file>",
		Short: "Parse a JSON file and print its canonical re-serialization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			opts := []qadom.ParseOption{qadom.WithStrict(strict)}

			maxSize, err := qadom.CalculateMaxBufferSize(data, opts...)
			if err != nil {
				return fmt.Errorf("sizing failed: %w", err)
			}
			doc, _, perr := qadom.Parse(data, make([]byte, maxSize), opts...)
			if perr != nil {
				return fmt.Errorf("parse failed: %w", perr)
			}

			out := make([]byte, maxSize*2+64)
			n := qadom.Sprint(doc.Root(), out)
			os.Stdout.Write(out[:n])
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "reject comments, leading zeros, and trailing commas")
	return cmd
}
