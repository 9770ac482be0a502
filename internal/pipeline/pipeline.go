// Package pipeline sequences the claims decision stages: extraction,
// classification, compliance checking, and routing.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/akarpov/claimroute/internal/cache"
	"github.com/akarpov/claimroute/internal/classify"
	"github.com/akarpov/claimroute/internal/compliance"
	"github.com/akarpov/claimroute/internal/extract"
	"github.com/akarpov/claimroute/internal/history"
	"github.com/akarpov/claimroute/internal/model"
	"github.com/akarpov/claimroute/internal/policy"
	"github.com/akarpov/claimroute/internal/routing"
)

// Stage identifies where a pipeline run currently is
type Stage string

const (
	StageExtracting         Stage = "Extracting"
	StageClassifying        Stage = "Classifying"
	StageCheckingCompliance Stage = "CheckingCompliance"
	StageRouting            Stage = "Routing"
	StageDone               Stage = "Done"
	StageFailed             Stage = "Failed"
)

// Pipeline orchestrates one claim per invocation. Extraction and
// classification can fail a run; compliance and routing always produce a
// result, so once compliance is reached the run completes. All dependencies
// are built once here and read-only afterwards, so a single Pipeline is safe
// for concurrent runs.
type Pipeline struct {
	extractor  *extract.Extractor
	classifier classify.Classifier
	compliance *compliance.Engine
	routing    *routing.Engine
	history    history.Store
	renderer   *Renderer
	verbose    bool
}

// New builds a pipeline from validated configuration. Any broken dependency
// (malformed policy DB, unusable training data, unreachable history store)
// fails construction; the process refuses to start rather than run with
// partial rules.
func New(cfg *model.Config) (*Pipeline, error) {
	store, err := policy.NewStore(cfg.Policies)
	if err != nil {
		return nil, fmt.Errorf("load policy store: %w", err)
	}

	classifier, err := classify.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize classifier: %w", err)
	}

	var extractionCache cache.Cache
	if cfg.Cache.Enabled {
		ttl := time.Duration(cfg.Cache.TTL)
		if ttl == 0 {
			ttl = 24 * time.Hour
		}
		extractionCache = cache.NewLayeredCache(ttl, cfg.Cache.Dir, ttl)
	}

	var hist history.Store = history.NopStore{}
	if cfg.History.Enabled {
		s, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		hist = s
	}

	return &Pipeline{
		extractor:  extract.NewExtractor(extractionCache),
		classifier: classifier,
		compliance: compliance.NewEngine(store),
		routing:    routing.NewEngine(cfg.ConfidenceThreshold, cfg.Routing),
		history:    hist,
		renderer:   NewRenderer(),
		verbose:    cfg.Output.Verbose,
	}, nil
}

// History exposes the decision log for inspection commands
func (p *Pipeline) History() history.Store {
	return p.history
}

// Close releases the pipeline's resources
func (p *Pipeline) Close() error {
	return p.history.Close()
}

// Process runs the full decision pipeline for one claim document. It always
// returns a result record: Success with every section populated, or Failed
// with only a reason. Nothing here surfaces a raw fault to the caller.
func (p *Pipeline) Process(ctx context.Context, path string) *model.Result {
	// Stage: Extracting
	p.logf("[%s] %s", StageExtracting, path)
	entities, text, err := p.extractor.Extract(path)
	if err != nil {
		return p.fail(ctx, path, fmt.Sprintf("Could not process document. The file may be unreadable or blank. (%v)", err))
	}

	// Stage: Classifying
	p.logf("[%s] %s", StageClassifying, path)
	cls, err := p.classifier.Classify(ctx, text)
	if err != nil || cls.ClaimType == "" {
		reason := "Could not classify the claim from the text."
		if err != nil {
			reason = fmt.Sprintf("Could not classify the claim from the text. (%v)", err)
		}
		return p.fail(ctx, path, reason)
	}

	// Stage: CheckingCompliance — always yields a result, never aborts the run
	p.logf("[%s] policy=%s type=%s", StageCheckingCompliance, entities.PolicyNumber, cls.ClaimType)
	comp := p.compliance.Check(entities.PolicyNumber, cls.ClaimType, text)

	// Stage: Routing
	p.logf("[%s] compliant=%v", StageRouting, comp.IsCompliant)
	rec := model.ClaimRecord{
		Entities:         entities,
		ClaimType:        cls.ClaimType,
		Confidence:       cls.Confidence,
		Priority:         cls.Priority,
		Value:            entities.ClaimValue,
		IsCompliant:      comp.IsCompliant,
		ComplianceReason: comp.Reason,
	}
	dec := p.routing.Route(rec)

	// Stage: Done
	p.logf("[%s] decision=%s", StageDone, dec.Decision)
	result := &model.Result{
		Status:         model.StatusSuccess,
		Document:       path,
		ProcessedAt:    time.Now().UTC(),
		Extracted:      &entities,
		Classification: &cls,
		Compliance:     &comp,
		Routing:        &dec,
	}

	p.record(ctx, path, result)
	return result
}

// RenderResult writes the JSON report (when jsonPath is set) and prints the
// stdout summary
func (p *Pipeline) RenderResult(result *model.Result, jsonPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.logf("✓ Wrote JSON: %s", jsonPath)
	}

	p.renderer.RenderSummary(result)
	return nil
}

// fail builds the minimal failure record and logs it to history
func (p *Pipeline) fail(ctx context.Context, path, reason string) *model.Result {
	p.logf("[%s] %s: %s", StageFailed, path, reason)
	result := model.FailedResult(reason)
	p.record(ctx, path, result)
	return result
}

// record appends the outcome to the decision log; a history failure never
// fails the run
func (p *Pipeline) record(ctx context.Context, path string, result *model.Result) {
	if err := p.history.Record(ctx, history.EntryFromResult(path, result)); err != nil {
		p.logf("warning: record history: %v", err)
	}
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
