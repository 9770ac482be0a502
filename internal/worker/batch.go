package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/akarpov/claimroute/internal/model"
)

// documentExtensions are the claim document types the intake accepts
var documentExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
}

// Processor runs the pipeline for a single claim document
type Processor interface {
	Process(ctx context.Context, path string) *model.Result
}

// ProcessJob is one claim document queued for processing
type ProcessJob struct {
	Path      string
	Processor Processor
	Limiter   *Limiter
}

// Execute runs the pipeline for the job's document
func (j *ProcessJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx); err != nil {
			return &ProcessResult{
				Path:   j.Path,
				Result: model.FailedResult(fmt.Sprintf("cancelled before processing: %v", err)),
			}
		}
	}
	return &ProcessResult{
		Path:   j.Path,
		Result: j.Processor.Process(ctx, j.Path),
	}
}

// ProcessResult pairs a document path with its pipeline result
type ProcessResult struct {
	Path   string
	Result *model.Result
}

// GetError surfaces a failed run as an error for the pool interface
func (r *ProcessResult) GetError() error {
	if r.Result != nil && r.Result.Status == model.StatusFailed {
		return errors.New(r.Result.Reason)
	}
	return nil
}

// BatchProcessor processes multiple claim documents concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(processor Processor, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
		limiter:     NewLimiter(requestsPerSecond, burst),
	}
}

// ProcessPaths processes the given documents concurrently. Results are
// drained while submission is still in flight; the pool's buffers are bounded,
// so submit-everything-then-collect would stall once they fill. Cancelling ctx
// stops queued and in-flight runs.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*ProcessResult {
	if len(paths) == 0 {
		return []*ProcessResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	collector := NewResultCollector()
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for result := range pool.Results() {
			collector.Add(result)
		}
	}()

	for _, path := range paths {
		pool.Submit(&ProcessJob{
			Path:      path,
			Processor: b.processor,
			Limiter:   b.limiter,
		})
	}

	pool.Close()
	<-drained

	results := collector.Results()
	processResults := make([]*ProcessResult, len(results))
	for i, result := range results {
		processResults[i] = result.(*ProcessResult)
	}

	return processResults
}

// ProcessInput accepts either a directory of claim documents or a listing
// file (one document path per line) and processes everything found
func (b *BatchProcessor) ProcessInput(ctx context.Context, input string) ([]*ProcessResult, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	var paths []string
	if info.IsDir() {
		paths, err = CollectDocuments(input)
	} else {
		paths, err = ReadPathsFromFile(input)
	}
	if err != nil {
		return nil, err
	}

	return b.ProcessPaths(ctx, paths), nil
}

// CollectDocuments walks a directory and returns every claim document in it,
// skipping hidden files and directories
func CollectDocuments(dir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && documentExtensions[strings.ToLower(filepath.Ext(name))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	return paths, nil
}

// ReadPathsFromFile reads document paths from a listing file (one per line,
// blank lines and # comments skipped, duplicates dropped)
func ReadPathsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// IsDocument reports whether a path has a supported claim document extension
func IsDocument(path string) bool {
	return documentExtensions[strings.ToLower(filepath.Ext(path))]
}
