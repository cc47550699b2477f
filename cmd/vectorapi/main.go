// Command vectorapi serves the vector database access layer over REST and
// offers operational subcommands.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
