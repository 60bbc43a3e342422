// Command qadomfmt is a thin CLI shell over the qadom library: parse,
// pretty-print, and validate JSON files, with transparent zstd decompression
// and an optional cross-check against a second decoder.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("qadomfmt: failed")
		os.Exit(1)
	}
}
