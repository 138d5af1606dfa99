package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/nidmcheck/config"
	"github.com/c360studio/nidmcheck/equivalence"
	"github.com/c360studio/nidmcheck/export"
	"github.com/c360studio/nidmcheck/graph"
	"github.com/c360studio/nidmcheck/harness"
	"github.com/c360studio/nidmcheck/report"
	"github.com/c360studio/nidmcheck/storage"
	"github.com/c360studio/nidmcheck/watch"
)

func validateCmd(flags *globalFlags) *cobra.Command {
	var (
		reference    string
		candidate    string
		ontologyPath string
		label        string
		maxSteps     int
		timeout      time.Duration
		jsonOutput   bool
		lenient      bool
		mappedPath   string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate one candidate export against its reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(flags.logLevel)
			cfg, err := loadConfig(flags, logger)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("ontology") {
				cfg.Ontology.Path = ontologyPath
			}
			if cmd.Flags().Changed("max-steps") {
				cfg.Comparison.MaxSteps = maxSteps
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Comparison.Timeout = timeout
			}
			if lenient {
				cfg.Comparison.StrictBlankNodes = false
			}
			if jsonOutput {
				cfg.Report.Format = config.FormatJSON
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if label == "" {
				label = filepath.Base(candidate)
			}

			app := NewApp(cfg, logger)
			if err := app.Start(cmd.Context(), false); err != nil {
				return err
			}
			defer app.Shutdown()

			var (
				compared harness.ComparedFunc
				mapErr   error
			)
			if mappedPath != "" {
				format, err := export.FormatForPath(mappedPath)
				if err != nil {
					return fmt.Errorf("write mapped candidate: %w", err)
				}
				compared = func(_ harness.Example, cand *graph.Graph, res *equivalence.Result) {
					mapErr = writeMapped(cand, res.Mapping, mappedPath, format)
				}
			}
			err = runOnce(cmd, app, []harness.Example{{Name: label, Reference: reference, Candidate: candidate}}, compared)
			if mapErr != nil {
				return fmt.Errorf("write mapped candidate: %w", mapErr)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&reference, "reference", "r", "", "Reference graph file")
	cmd.Flags().StringVarP(&candidate, "candidate", "d", "", "Candidate graph file (the export under test)")
	cmd.Flags().StringVar(&ontologyPath, "ontology", "", "Ontology document (default: embedded NIDM-Results)")
	cmd.Flags().StringVar(&label, "label", "", "Source label for findings (default: candidate file name)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Blank node search step budget (<0 unlimited)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Comparison timeout (0 = none)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Do not report unmapped blank nodes")
	cmd.Flags().StringVar(&mappedPath, "write-mapped", "", "Write the candidate relabeled onto reference blank nodes (.ttl or .nt)")
	_ = cmd.MarkFlagRequired("reference")
	_ = cmd.MarkFlagRequired("candidate")

	return cmd
}

func batchCmd(flags *globalFlags) *cobra.Command {
	var publish bool

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Validate every configured and discovered example",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(flags.logLevel)
			cfg, err := loadConfig(flags, logger)
			if err != nil {
				return err
			}

			app := NewApp(cfg, logger)
			if err := app.Start(cmd.Context(), publish); err != nil {
				return err
			}
			defer app.Shutdown()

			examples, err := app.Examples()
			if err != nil {
				return err
			}
			if len(examples) == 0 {
				return errors.New("no examples configured or discovered")
			}
			return runOnce(cmd, app, examples, nil)
		},
	}

	cmd.Flags().BoolVar(&publish, "publish", false, "Publish the JSON report to NATS (report.nats_url)")

	return cmd
}

// writeMapped writes the candidate with each blank node renamed to its
// reference counterpart, so that it can be diffed against the reference as
// text. Blank nodes without a counterpart keep their label with an
// "unmapped_" prefix.
func writeMapped(cand *graph.Graph, mapping map[graph.Term]graph.Term, path string, format export.Format) error {
	mapped, err := graph.Relabel(cand, cand.Name(), func(b graph.Term) graph.Term {
		if target, ok := mapping[b]; ok {
			return target
		}
		return graph.NewBlankNode("unmapped_" + b.Value)
	})
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.NewExporter().Write(f, mapped, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// runOnce runs examples, prints the report and maps failures to
// errValidationFailed.
func runOnce(cmd *cobra.Command, app *App, examples []harness.Example, compared harness.ComparedFunc) error {
	runner, err := app.Runner(nil, compared)
	if err != nil {
		return err
	}
	rep, runErr := runner.Run(cmd.Context(), examples)
	if err := app.writeReport(cmd.OutOrStdout(), rep); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if !rep.Passed() {
		return errValidationFailed
	}
	return nil
}

func watchCmd(flags *globalFlags) *cobra.Command {
	var (
		debounce    time.Duration
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-validate examples whenever their candidate files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(flags.logLevel)
			cfg, err := loadConfig(flags, logger)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			app := NewApp(cfg, logger)
			if err := app.Start(ctx, false); err != nil {
				return err
			}
			defer app.Shutdown()

			reg := prometheus.NewRegistry()
			if metricsAddr != "" {
				srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("Metrics server failed", "error", err)
					}
				}()
				defer srv.Close()
				logger.Info("Serving metrics", "addr", metricsAddr)
			}

			runner, err := app.Runner(reg, nil)
			if err != nil {
				return err
			}
			examples, err := app.Examples()
			if err != nil {
				return err
			}
			if len(examples) == 0 {
				return errors.New("no examples configured or discovered")
			}

			w, err := watch.New(watch.Config{Debounce: debounce}, logger)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Stop()
			for _, ex := range examples {
				if err := w.Add(ex.Candidate); err != nil {
					return fmt.Errorf("watch %s: %w", ex.Candidate, err)
				}
			}

			out := cmd.OutOrStdout()
			rep, _ := runner.Run(ctx, examples)
			if err := app.writeReport(out, rep); err != nil {
				return err
			}

			w.Start(ctx)
			for ev := range w.Events() {
				affected := affectedExamples(examples, ev)
				if len(affected) == 0 {
					continue
				}
				fmt.Fprintf(out, "\n%s %s: re-validating %d example(s)\n", ev.Op, ev.Path, len(affected))
				rep, err := runner.Run(ctx, affected)
				if err != nil && ctx.Err() != nil {
					return nil
				}
				if err := app.writeReport(out, rep); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultConfig().Debounce, "Quiet period before re-validating")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")

	return cmd
}

// affectedExamples returns the examples whose candidate changed.
func affectedExamples(examples []harness.Example, ev watch.Event) []harness.Example {
	var out []harness.Example
	for _, ex := range examples {
		abs, err := filepath.Abs(ex.Candidate)
		if err != nil {
			continue
		}
		if abs == ev.Path {
			out = append(out, ex)
		}
	}
	return out
}

func historyCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List stored validation runs, or print one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(flags.logLevel)
			cfg, err := loadConfig(flags, logger)
			if err != nil {
				return err
			}
			if cfg.History.Backend == config.HistoryNone {
				return errors.New("no history backend configured (history.backend)")
			}

			app := NewApp(cfg, logger)
			if err := app.Start(cmd.Context(), false); err != nil {
				return err
			}
			defer app.Shutdown()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if len(args) == 1 {
				rep, err := app.store.GetRun(ctx, args[0])
				if err != nil {
					return err
				}
				return app.writeReport(cmd.OutOrStdout(), rep)
			}

			runs, err := app.store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			printRuns(cmd, runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (<=0 for all)")

	return cmd
}

func printRuns(cmd *cobra.Command, runs []storage.RunSummary) {
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return
	}
	fmt.Fprintf(out, "%-36s  %-20s  %8s  %6s  %6s\n", "RUN ID", "STARTED", "EXAMPLES", "PASSED", "FAILED")
	for _, r := range runs {
		fmt.Fprintf(out, "%-36s  %-20s  %8d  %6d  %6d\n",
			r.RunID, r.StartedAt.Format(time.DateTime), r.Examples, r.Passed, r.Failed)
	}
}

// Compile-time check that the history stores satisfy RunStore.
var (
	_ storage.RunStore = (*storage.SQLiteStore)(nil)
	_ storage.RunStore = (*storage.KVStore)(nil)
	_ report.Publisher = (*report.NATSPublisher)(nil)
)
