package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akarpov/claimroute/internal/history"
	"github.com/akarpov/claimroute/internal/model"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent routing decisions",
	Long: `History lists the most recent pipeline runs from the local decision
log, newest first: document, claim type, compliance outcome, and the
routing decision.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled in the configuration")
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No decisions recorded yet.")
		return nil
	}

	for _, e := range entries {
		ts := e.RecordedAt.Local().Format("2006-01-02 15:04:05")
		if e.Status == model.StatusFailed {
			fmt.Printf("%s  ✗ %s\n", ts, e.Document)
			fmt.Printf("%19s %s\n", "", e.Reason)
			continue
		}

		compliant := "compliant"
		if !e.Compliant {
			compliant = "non-compliant"
		}
		fmt.Printf("%s  ✓ %s\n", ts, e.Document)
		fmt.Printf("%19s %s (%.2f), %s → %s\n", "", e.ClaimType, e.Confidence, compliant, e.Decision)
	}

	return nil
}
