package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clir-search",
		Short: "Cross-lingual retrieval evaluation for Bangla/English news",
		Long: `clir-search runs Bangla and English news queries through four
retrieval models (BM25, TF-IDF, fuzzy matching, multilingual embeddings),
fuses their rankings, and measures quality against human relevance judgments.

Run 'clir-search search' to query a document collection.
Run 'clir-search evaluate' to score all models against labeled queries.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().String("format", "text", "output format (text, json)")

	rootCmd.AddCommand(
		searchCmd(),
		evaluateCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("clir-search %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}
