// Package main provides the entry point for the Resume Studio HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume-studio",
	Short: "Resume Studio editing session API server",
	Long:  "Resume Studio exposes resume editing sessions over REST: persona-rendered resume documents, drag-reorder editing, AI-suggested rewrites gated by fact verification, ATS scoring, and artifact download.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
