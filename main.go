// Package main is the resumind worker: it consumes resume commands from
// RabbitMQ and exposes the offline analysis tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resumind",
	Short: "Resume parsing and job-match scoring worker",
	Long:  "resumind extracts candidate profiles from PDF, DOCX and text resumes and scores them against the active job requirement.",
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
