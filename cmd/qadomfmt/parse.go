package main

import (
	"fmt"

	"github.com/qadom/qadom"
	"github.com/spf13/cobra"
)

func parseCmd() *cobra.Command {
	var strict, insitu, diff bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a JSON file and report buffer sizing stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			opts := []qadom.ParseOption{qadom.WithStrict(strict)}

			var original []byte
			if diff {
				original = append([]byte(nil), data...)
			}

			var maxSize int
			if insitu {
				maxSize, err = qadom.CalculateMaxBufferSizeInsitu(data, opts...)
			} else {
				maxSize, err = qadom.CalculateMaxBufferSize(data, opts...)
			}
			if err != nil {
				return fmt.Errorf("sizing failed: %w", err)
			}
			buf := make([]byte, maxSize)

			var doc *qadom.Document
			var written int
			var perr error
			if insitu {
				doc, written, perr = qadom.ParseInsitu(data, buf, opts...)
			} else {
				doc, written, perr = qadom.Parse(data, buf, opts...)
			}
			if perr != nil {
				return fmt.Errorf("parse failed: %w", perr)
			}

			qadom.RecordParse(args[0], len(data), written, false)
			fmt.Printf("input bytes:  %d\n", len(data))
			fmt.Printf("max estimate: %d\n", maxSize)
			fmt.Printf("written:      %d\n", written)
			fmt.Printf("root type:    %s\n", doc.Root().Type())

			if diff {
				return diffAgainstJSONIter(original, doc)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "reject comments, leading zeros, and trailing commas")
	cmd.Flags().BoolVar(&insitu, "insitu", false, "alias strings into the input instead of copying")
	cmd.Flags().BoolVar(&diff, "diff", false, "cross-check Sprint output against jsoniter's decode of the input")
	return cmd
}
