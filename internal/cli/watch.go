package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/akarpov/claimroute/internal/model"
	"github.com/akarpov/claimroute/internal/pipeline"
	"github.com/akarpov/claimroute/internal/worker"
)

var (
	watchOutputDir string
	settleDelay    time.Duration
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch an intake directory and process claims as they arrive",
	Long: `Watch monitors an intake directory and runs the pipeline for every
claim document created in it. Writes are debounced so partially-copied
files are not picked up mid-transfer.

Runs until interrupted (Ctrl-C).

Example:
  claimroute watch ./intake
  claimroute watch ./intake --output-dir ./results --settle 1s`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchOutputDir, "output-dir", "./claimroute-results", "output directory for result records")
	watchCmd.Flags().DurationVar(&settleDelay, "settle", 500*time.Millisecond, "wait after the last write before processing a file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}
	if err := applyClassifierEnv(cfg); err != nil {
		return err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat intake dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := os.MkdirAll(watchOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Watching %s (results → %s), Ctrl-C to stop\n", dir, watchOutputDir)

	renderer := pipeline.NewRenderer()

	// Per-path settle timers: a file is processed only after its writes go
	// quiet for the settle interval
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)

	processFile := func(path string) {
		mu.Lock()
		delete(timers, path)
		mu.Unlock()

		result := p.Process(ctx, path)
		jsonPath := filepath.Join(watchOutputDir, pipeline.ResultFilename(path))
		if err := renderer.RenderJSON(result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write result: %v\n", path, err)
			return
		}

		if result.Status == model.StatusFailed {
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", path, result.Reason)
			return
		}
		fmt.Fprintf(os.Stderr, "✓ %s → %s\n", path, result.Routing.Decision)
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			for _, t := range timers {
				t.Stop()
			}
			mu.Unlock()
			fmt.Fprintln(os.Stderr, "Stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !worker.IsDocument(event.Name) {
				continue
			}

			path := event.Name
			mu.Lock()
			if t, exists := timers[path]; exists {
				t.Reset(settleDelay)
			} else {
				timers[path] = time.AfterFunc(settleDelay, func() { processFile(path) })
			}
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
