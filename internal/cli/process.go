package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/akarpov/claimroute/internal/model"
	"github.com/akarpov/claimroute/internal/pipeline"
)

var (
	outJSON       string
	procTimeout   time.Duration
	noCache       bool
	noHistory     bool
	clfProvider   string
	clfModel      string
	failOnFlagged bool
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Process a single claim document and route it",
	Long: `Process runs the full decision pipeline for one claim document:
- Extract raw text and structured entities (policy number, claim value,
  claimant names, dates)
- Classify the claim type with a confidence score and handling priority
- Check the claim against the policy's coverage and exclusion rules
- Route the claim to its handling queue

Example:
  claimroute process claim-2024-0117.txt
  claimroute process scans/claim.html --json result.json
  claimroute process claim.txt --classifier openai --model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	// Output flags
	processCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")

	// Pipeline flags
	processCmd.Flags().DurationVar(&procTimeout, "timeout", 2*time.Minute, "overall processing timeout")
	processCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable extraction cache (force fresh parse)")
	processCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the decision in the history log")
	processCmd.Flags().BoolVar(&failOnFlagged, "fail-on-flagged", false, "exit non-zero when the claim is flagged for manual review")

	// Classifier flags
	processCmd.Flags().StringVar(&clfProvider, "classifier", "", "classification backend (bayes, openai, ollama; default from config)")
	processCmd.Flags().StringVar(&clfModel, "model", "", "model name for LLM-backed classifiers")
}

func runProcess(cmd *cobra.Command, args []string) error {
	document := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), procTimeout)
	defer cancel()

	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}

	// Apply flag overrides
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

	if verbose {
		fmt.Fprintf(os.Stderr, "Processing: %s\n", document)
		fmt.Fprintf(os.Stderr, "Policies:   %d\n", len(cfg.Policies))
		fmt.Fprintf(os.Stderr, "Classifier: %s\n", classifierName(cfg))
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	result := p.Process(ctx, document)

	if err := p.RenderResult(result, outJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if result.Status == model.StatusFailed {
		return fmt.Errorf("processing failed: %s", result.Reason)
	}
	if failOnFlagged && result.Routing != nil && result.Routing.Decision == model.DecisionManualReview {
		return fmt.Errorf("claim flagged: %s", result.Routing.Reason)
	}

	return nil
}

func classifierName(cfg *model.Config) string {
	if cfg.Classifier.Provider == "" {
		return "bayes"
	}
	return cfg.Classifier.Provider
}
