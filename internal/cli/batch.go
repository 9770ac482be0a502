package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/akarpov/claimroute/internal/model"
	"github.com/akarpov/claimroute/internal/pipeline"
	"github.com/akarpov/claimroute/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir-or-listing>",
	Short: "Process multiple claim documents in parallel",
	Long: `Batch processes many claim documents concurrently:
- Accepts a directory of documents or a listing file (one path per line)
- Runs the full pipeline per document with a configurable worker count
- Writes one JSON result per document to the output directory

Example:
  claimroute batch ./intake
  claimroute batch claims.txt --concurrency 8 --output-dir ./results
  claimroute batch ./intake --classifier openai`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./claimroute-results", "output directory for result records")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable extraction cache (force fresh parse)")
	batchCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record decisions in the history log")

	// Classifier flags
	batchCmd.Flags().StringVar(&clfProvider, "classifier", "", "classification backend (bayes, openai, ollama; default from config)")
	batchCmd.Flags().StringVar(&clfModel, "model", "", "model name for LLM-backed classifiers")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}

	if noCache {
		cfg.Cache.Enabled = false
	}
	if noHistory {
		cfg.History.Enabled = false
	}
	if clfProvider != "" {
		cfg.Classifier.Provider = clfProvider
	}
	if clfModel != "" {
		cfg.Classifier.Model = clfModel
	}
	if err := applyClassifierEnv(cfg); err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Claimroute Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", input)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Classifier:   %s\n", classifierName(cfg))
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers,
		cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	results, err := processor.ProcessInput(ctx, input)
	if err != nil {
		return fmt.Errorf("process input: %w", err)
	}

	renderer := pipeline.NewRenderer()
	successCount := 0
	failureCount := 0

	for _, result := range results {
		jsonPath := filepath.Join(outputDir, pipeline.ResultFilename(result.Path))
		if err := renderer.RenderJSON(result.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write result: %v\n", result.Path, err)
			failureCount++
			continue
		}

		if result.Result.Status == model.StatusFailed {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", result.Path, result.Result.Reason)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s → %s\n", result.Path, result.Result.Routing.Decision)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
