// Package main implements the screener CLI for offline resume scoring.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Score and rank resumes against a job requirement",
	Long:  "screener scores a folder of resumes against a YAML job requirement, ranks the candidates and plans interview question budgets.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
