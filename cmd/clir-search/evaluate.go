package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/banglaclir/clir-search/internal/bus"
	"github.com/banglaclir/clir-search/internal/config"
	"github.com/banglaclir/clir-search/internal/corpus"
	"github.com/banglaclir/clir-search/internal/evaluation"
	"github.com/banglaclir/clir-search/internal/pipeline"
	"github.com/banglaclir/clir-search/internal/pkg/logger"
)

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score every retrieval model against labeled queries",
		Long: `Run all judged queries through every retrieval model and report
Precision@K, Recall@K, nDCG@K, and MRR per model against the acceptance
targets. Judged queries come from the annotation CSV.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			format, _ := cmd.Flags().GetString("format")
			docsPath, _ := cmd.Flags().GetString("docs")
			judgmentsPath, _ := cmd.Flags().GetString("judgments")
			outputPath, _ := cmd.Flags().GetString("output")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Format)

			if judgmentsPath == "" {
				judgmentsPath = cfg.Evaluation.JudgmentsFile
			}

			store, err := evaluation.LoadJudgments(judgmentsPath, log)
			if err != nil {
				return err
			}

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

			runs, err := svc.RunQueries(cmd.Context(), store.Queries(), cfg.Evaluation.Depth)
			if err != nil {
				return err
			}

			evaluator := evaluation.NewEvaluator(store, cfg.Evaluation, log)
			comparison := evaluator.EvaluateAll(runs)

			svc.PublishEvaluation(cmd.Context(), map[string]any{
				"queries":    len(store.Queries()),
				"models":     svc.Models(),
				"best_model": comparison.BestModel,
			})

			if outputPath != "" {
				if err := writeReport(outputPath, comparison); err != nil {
					return err
				}
				log.Info("wrote evaluation report", "path", outputPath)
			}

			if format == "json" {
				return printJSON(comparison)
			}

			printComparisonText(comparison, evaluator.Targets())
			return nil
		},
	}

	cmd.Flags().String("docs", "data/processed/documents.json", "document collection JSON path")
	cmd.Flags().String("judgments", "", "annotation CSV path (overrides config)")
	cmd.Flags().StringP("output", "o", "", "write the full report as JSON to this path")

	return cmd
}

func writeReport(path string, comparison evaluation.Comparison) error {
	data, err := json.MarshalIndent(comparison, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printComparisonText(comparison evaluation.Comparison, targets map[string]float64) {
	metrics := make([]string, 0, len(targets))
	for name := range targets {
		metrics = append(metrics, name)
	}
	sort.Strings(metrics)

	models := make([]string, 0, len(comparison.Evaluations))
	for model := range comparison.Evaluations {
		models = append(models, model)
	}
	sort.Strings(models)

	for _, model := range models {
		ev := comparison.Evaluations[model]
		fmt.Printf("== %s (%d queries) ==\n", model, ev.NumQueries)
		for _, name := range metrics {
			status := "MISS"
			if ev.Meets[name] {
				status = "PASS"
			}
			fmt.Printf("  %-13s %.4f  target %.2f  %s\n", name, ev.Means[name], targets[name], status)
		}
	}

	fmt.Println("== best model per metric ==")
	for _, name := range metrics {
		if model, ok := comparison.BestModel[name]; ok {
			fmt.Printf("  %-13s %s\n", name, model)
		}
	}
}
