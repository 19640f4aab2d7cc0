// Command tsplot plots the columns of time series data sets.
package main

import (
	"os"

	"github.com/vdobler/tsplot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
