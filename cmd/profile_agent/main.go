// Package main provides the profile_agent CLI: resume profile extraction,
// public profile scraping, skills analysis and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const app = "profile_agent"

// Actual version can be specified in build command.
var version = "unknown"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "Resume profile extraction and skills analysis",
		Long:          "profile_agent extracts structured profiles from PDF and DOCX resumes, compares them with public profiles and target roles, and serves the same operations over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is profile-analyzer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
