// Package harness runs NIDM-Results validation over named examples: each
// candidate export is checked against the ontology vocabulary and compared
// with its reference graph, and the outcomes are collected into a report.
package harness

import (
	"context"
	"log/slog"
	"time"

	"github.com/c360studio/nidmcheck/consistency"
	"github.com/c360studio/nidmcheck/equivalence"
	"github.com/c360studio/nidmcheck/graph"
	"github.com/c360studio/nidmcheck/ontology"
	"github.com/c360studio/nidmcheck/report"
	"github.com/c360studio/nidmcheck/storage"
	"github.com/c360studio/nidmcheck/vocabulary/nidm"
	errs "github.com/c360studio/semstreams/pkg/errs"
	"golang.org/x/sync/errgroup"
)

// Example statuses recorded in metrics.
const (
	statusPassed = "passed"
	statusFailed = "failed"
	statusError  = "error"
)

// LoadOntology loads the ontology at path, or the embedded NIDM-Results
// ontology when path is empty. With includeVocabulary the registered NIDM
// predicates are merged into the model.
func LoadOntology(path string, includeVocabulary bool) (*ontology.Model, error) {
	var (
		model *ontology.Model
		err   error
	)
	if path == "" {
		model, err = ontology.Default()
	} else {
		model, err = ontology.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if includeVocabulary {
		model = ontology.Merge(model, ontology.FromVocabulary(nidm.Classes(), nidm.Predicates()))
	}
	return model, nil
}

// Options configures a Runner.
type Options struct {
	Consistency consistency.Options
	Comparison  equivalence.Options

	// Parallelism bounds the number of examples validated at once.
	Parallelism int

	// Optional collaborators; nil disables each.
	Metrics   *Metrics
	Store     storage.RunStore
	Publisher report.Publisher
	Compared  ComparedFunc
}

// ComparedFunc receives the candidate graph and comparison result of every
// example that reached a verdict, including an inconclusive one. It runs on
// the example's goroutine.
type ComparedFunc func(ex Example, cand *graph.Graph, res *equivalence.Result)

// Runner validates examples against one ontology.
type Runner struct {
	model      *ontology.Model
	checker    *consistency.Checker
	comparator *equivalence.Comparator
	opts       Options
	logger     *slog.Logger
}

// NewRunner creates a runner for model.
func NewRunner(model *ontology.Model, opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	return &Runner{
		model:      model,
		checker:    consistency.NewChecker(model, opts.Consistency, logger),
		comparator: equivalence.New(opts.Comparison, logger),
		opts:       opts,
		logger:     logger,
	}
}

// Run validates every example and returns the finished report. Failures of a
// single example are recorded in its result and never stop the run. The
// returned error reports a cancelled context or a failure to store or
// publish the report; the report is returned in both cases.
func (r *Runner) Run(ctx context.Context, examples []Example) (*report.Report, error) {
	rep := report.New(r.model.Source())
	rep.Examples = make([]report.ExampleResult, len(examples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallelism)
	for i, ex := range examples {
		g.Go(func() error {
			rep.Examples[i] = r.RunExample(gctx, ex)
			return nil
		})
	}
	_ = g.Wait()
	rep.Finish()

	r.logger.Info("Validation run finished",
		"run_id", rep.RunID,
		"examples", rep.Summary.Examples,
		"passed", rep.Summary.Passed,
		"failed", rep.Summary.Failed)

	if err := ctx.Err(); err != nil {
		return rep, err
	}
	return rep, r.persist(ctx, rep)
}

func (r *Runner) persist(ctx context.Context, rep *report.Report) error {
	if r.opts.Store != nil {
		if err := r.opts.Store.SaveRun(ctx, rep); err != nil {
			return errs.WrapTransient(err, "harness", "Run", "save run history")
		}
	}
	if r.opts.Publisher != nil {
		if err := r.opts.Publisher.Publish(ctx, rep); err != nil {
			return errs.WrapTransient(err, "harness", "Run", "publish report")
		}
	}
	return nil
}

// RunExample validates one example: the candidate is checked against the
// ontology, then compared with the reference.
func (r *Runner) RunExample(ctx context.Context, ex Example) (res report.ExampleResult) {
	start := time.Now()
	res = report.ExampleResult{
		Name:      ex.Name,
		Reference: ex.Reference,
		Candidate: ex.Candidate,
	}
	defer func() {
		res.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		r.opts.Metrics.recordExample(statusError, nil)
		return res
	}

	ref, cand, err := r.loadPair(ctx, ex)
	if err != nil {
		r.logger.Warn("Failed to load example", "example", ex.Name, "error", err)
		res.Error = err.Error()
		r.opts.Metrics.recordExample(statusError, nil)
		return res
	}

	stageStart := time.Now()
	res.Findings = append(res.Findings, r.checker.Check(cand, ex.Name).Findings()...)
	r.opts.Metrics.recordStage(stageConsistency, time.Since(stageStart))

	stageStart = time.Now()
	cmp, err := r.comparator.Compare(ctx, ref, cand, ex.Name)
	r.opts.Metrics.recordStage(stageCompare, time.Since(stageStart))
	r.opts.Metrics.recordComparison(cmp)
	switch {
	case err == nil, equivalence.IsTimeout(err):
		res.Verdict = cmp.Verdict
		res.Steps = cmp.Steps
		res.Findings = append(res.Findings, cmp.Findings...)
		if r.opts.Compared != nil {
			r.opts.Compared(ex, cand, cmp)
		}
	default:
		res.Error = err.Error()
		r.opts.Metrics.recordExample(statusError, res.Findings)
		return res
	}

	status := statusPassed
	if !res.Passed() {
		status = statusFailed
	}
	r.opts.Metrics.recordExample(status, res.Findings)

	r.logger.Debug("Example validated",
		"example", ex.Name,
		"verdict", res.Verdict.String(),
		"findings", len(res.Findings),
		"steps", res.Steps)
	return res
}

// loadPair loads the reference and candidate graphs concurrently.
func (r *Runner) loadPair(ctx context.Context, ex Example) (ref, cand *graph.Graph, err error) {
	start := time.Now()
	defer func() { r.opts.Metrics.recordStage(stageLoad, time.Since(start)) }()

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ref, err = graph.LoadFile(ex.Reference)
		return err
	})
	g.Go(func() error {
		var err error
		cand, err = graph.LoadFile(ex.Candidate)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return ref, cand, nil
}
