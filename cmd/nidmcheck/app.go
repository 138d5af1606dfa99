package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/nidmcheck/config"
	"github.com/c360studio/nidmcheck/harness"
	"github.com/c360studio/nidmcheck/report"
	"github.com/c360studio/nidmcheck/storage"
)

// App wires the configured collaborators of a validation run.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	// NATS
	natsConn *nats.Conn
	js       jetstream.JetStream

	// History
	store storage.RunStore

	publisher report.Publisher
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	return &App{cfg: cfg, logger: logger}
}

// Start connects to NATS and opens the history store when configured.
// publish enables report publishing.
func (a *App) Start(ctx context.Context, publish bool) error {
	needNATS := publish || a.cfg.History.Backend == config.HistoryNATS
	if needNATS {
		if err := a.startNATS(); err != nil {
			return fmt.Errorf("start NATS: %w", err)
		}
	}
	if publish {
		a.publisher = report.NewNATSPublisher(a.js, a.cfg.Report.Subject, a.logger)
	}

	switch a.cfg.History.Backend {
	case config.HistorySQLite:
		store, err := storage.OpenSQLite(a.cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		a.store = store
	case config.HistoryNATS:
		store, err := storage.NewKVStore(ctx, a.js, a.cfg.History.Bucket)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		a.store = store
	}
	return nil
}

func (a *App) startNATS() error {
	if a.cfg.Report.NATSURL == "" {
		return fmt.Errorf("report.nats_url is not configured")
	}

	a.logger.Info("Connecting to NATS", "url", a.cfg.Report.NATSURL)
	conn, err := nats.Connect(a.cfg.Report.NATSURL, nats.Name(appName))
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	a.natsConn = conn

	// Get JetStream context
	js, err := jetstream.New(a.natsConn)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}
	a.js = js
	return nil
}

// Shutdown releases the store and the NATS connection.
func (a *App) Shutdown() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Failed to close history store", "error", err)
		}
	}
	if a.natsConn != nil {
		a.natsConn.Close()
	}
}

// Runner builds a harness runner from the configuration.
func (a *App) Runner(reg prometheus.Registerer, compared harness.ComparedFunc) (*harness.Runner, error) {
	model, err := harness.LoadOntology(a.cfg.Ontology.Path, a.cfg.Ontology.IncludeVocabulary)
	if err != nil {
		return nil, err
	}
	metrics, err := harness.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	opts := harness.Options{
		Comparison:  a.cfg.ComparisonOptions(),
		Parallelism: a.cfg.Parallelism,
		Metrics:     metrics,
		Store:       a.store,
		Publisher:   a.publisher,
		Compared:    compared,
	}
	opts.Consistency.ExternalNamespaces = a.cfg.Consistency.ExternalNamespaces
	return harness.NewRunner(model, opts, a.logger), nil
}

// Examples returns the configured examples followed by the discovered ones.
// A discovered example named like a configured one is skipped.
func (a *App) Examples() ([]harness.Example, error) {
	var examples []harness.Example
	seen := make(map[string]bool)
	for _, ex := range a.cfg.Examples {
		examples = append(examples, harness.Example{Name: ex.Name, Reference: ex.Reference, Candidate: ex.Candidate})
		seen[ex.Name] = true
	}

	if d := a.cfg.Discovery; d.Root != "" {
		found, err := harness.Discover(d.Root, d.Pattern, d.ReferenceFile, d.CandidateFile)
		if err != nil {
			return nil, fmt.Errorf("discover examples: %w", err)
		}
		for _, ex := range found {
			if !seen[ex.Name] {
				examples = append(examples, ex)
				seen[ex.Name] = true
			}
		}
	}
	return examples, nil
}

// writeReport prints rep in the configured format and reports whether it
// passed.
func (a *App) writeReport(w io.Writer, rep *report.Report) error {
	if a.cfg.Report.Format == config.FormatJSON {
		data, err := report.RenderJSON(rep)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	_, err := io.WriteString(w, rep.Text())
	return err
}

// loadConfig loads layered configuration and validates it.
func loadConfig(flags *globalFlags, logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.NewLoader(logger).Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
