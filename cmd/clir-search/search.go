package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banglaclir/clir-search/internal/bus"
	"github.com/banglaclir/clir-search/internal/config"
	"github.com/banglaclir/clir-search/internal/corpus"
	"github.com/banglaclir/clir-search/internal/pipeline"
	"github.com/banglaclir/clir-search/internal/pkg/logger"
	"github.com/banglaclir/clir-search/internal/ranking"
)

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a query through all retrieval models",
		Long: `Run a query through BM25, TF-IDF, fuzzy matching, and semantic
search, then print each model's ranking, the fused hybrid ranking, and a
confidence assessment. The query may be Bangla or English.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			format, _ := cmd.Flags().GetString("format")
			docsPath, _ := cmd.Flags().GetString("docs")
			topK, _ := cmd.Flags().GetInt("top-k")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Format)

			coll, err := corpus.LoadJSON(docsPath)
			if err != nil {
				return err
			}

			eventBus, err := bus.New(cfg.Bus, log)
			if err != nil {
				return err
			}
			defer eventBus.Close()

			svc, err := pipeline.New(cmd.Context(), coll, cfg, eventBus, log)
			if err != nil {
				return err
			}
			defer svc.Close()

			raw := strings.Join(args, " ")
			results, err := svc.SearchAll(cmd.Context(), svc.Query(raw), topK)
			if err != nil {
				return err
			}

			fused := svc.Fuse(results, topK)
			verdict := svc.Confidence(results)

			if format == "json" {
				return printJSON(map[string]any{
					"query":      raw,
					"results":    results,
					"hybrid":     fused,
					"confidence": verdict,
				})
			}

			printSearchText(svc.Models(), results, fused, verdict)
			return nil
		},
	}

	cmd.Flags().String("docs", "data/processed/documents.json", "document collection JSON path")
	cmd.Flags().IntP("top-k", "k", 0, "results per model (0 uses the configured default)")

	return cmd
}

func printSearchText(models []string, results map[string]ranking.RankedResult, fused ranking.FusedResult, verdict ranking.BatchVerdict) {
	for _, model := range models {
		result := results[model]
		fmt.Printf("== %s ==\n", model)
		if len(result.Entries) == 0 {
			fmt.Println("  (no results)")
			continue
		}
		for _, e := range result.Entries {
			fmt.Printf("  %2d. [%.3f] %s  %s\n", e.Rank, e.Score, e.Doc.ID, e.Doc.Title)
		}
	}

	fmt.Println("== hybrid ==")
	for _, e := range fused.Entries {
		fmt.Printf("  %2d. [%.3f] %s  %s\n", e.Rank, e.Score, e.Doc.ID, e.Doc.Title)
	}

	fmt.Println("== confidence ==")
	for _, model := range models {
		v := verdict.Verdicts[model]
		status := "ok"
		if !v.Confident {
			status = "low: " + v.Recommendation
		}
		fmt.Printf("  %-9s top=%.3f tier=%-6s %s\n", model, v.TopScore, v.Tier, status)
	}
	fmt.Printf("  overall: tier=%s best_score=%.3f\n", verdict.Tier, verdict.BestScore)
	if verdict.BestModel != "" {
		fmt.Printf("  best model: %s\n", verdict.BestModel)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
