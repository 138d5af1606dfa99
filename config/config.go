// Package config provides configuration loading and management for nidmcheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/c360studio/nidmcheck/equivalence"
	"gopkg.in/yaml.v3"
)

// Config represents the complete nidmcheck configuration
type Config struct {
	Ontology    OntologyConfig    `yaml:"ontology"`
	Examples    []ExampleConfig   `yaml:"examples,omitempty"`
	Discovery   DiscoveryConfig   `yaml:"discovery"`
	Comparison  ComparisonConfig  `yaml:"comparison"`
	Consistency ConsistencyConfig `yaml:"consistency"`
	Report      ReportConfig      `yaml:"report"`
	History     HistoryConfig     `yaml:"history"`

	// Parallelism is the number of examples validated concurrently
	Parallelism int `yaml:"parallelism"`
}

// OntologyConfig selects the ontology terms are checked against
type OntologyConfig struct {
	// Path is an ontology document (empty = embedded NIDM-Results ontology)
	Path string `yaml:"path,omitempty"`
	// IncludeVocabulary merges the registered NIDM predicates into the model
	IncludeVocabulary bool `yaml:"include_vocabulary"`
}

// ExampleConfig names one reference/candidate pair
type ExampleConfig struct {
	Name      string `yaml:"name"`
	Reference string `yaml:"reference"`
	Candidate string `yaml:"candidate"`
}

// DiscoveryConfig finds examples laid out as one directory per example
type DiscoveryConfig struct {
	// Root is the directory searched (empty = discovery disabled)
	Root string `yaml:"root,omitempty"`
	// Pattern is a doublestar glob for example directories, relative to Root
	Pattern string `yaml:"pattern"`
	// ReferenceFile is the reference graph file name inside each directory
	ReferenceFile string `yaml:"reference_file"`
	// CandidateFile is the candidate graph file name inside each directory
	CandidateFile string `yaml:"candidate_file"`
}

// ComparisonConfig bounds the graph equivalence search
type ComparisonConfig struct {
	// MaxSteps caps assignment attempts (<0 unlimited, 0 = no attempts)
	MaxSteps int `yaml:"max_steps"`
	// Timeout caps one comparison (0 = no deadline)
	Timeout time.Duration `yaml:"timeout"`
	// StrictBlankNodes reports unmapped blank nodes as findings
	StrictBlankNodes bool `yaml:"strict_blank_nodes"`
}

// ConsistencyConfig configures vocabulary checks
type ConsistencyConfig struct {
	// ExternalNamespaces are IRI prefixes accepted without declaration
	ExternalNamespaces []string `yaml:"external_namespaces,omitempty"`
}

// ReportConfig configures report output and publishing
type ReportConfig struct {
	// Format is "text" or "json"
	Format string `yaml:"format"`
	// NATSURL enables publishing the JSON report when set
	NATSURL string `yaml:"nats_url,omitempty"`
	// Subject is the JetStream subject reports are published to
	Subject string `yaml:"subject"`
}

// HistoryConfig configures where run reports are kept
type HistoryConfig struct {
	// Backend is "none", "sqlite" or "nats"
	Backend string `yaml:"backend"`
	// Path is the SQLite database file
	Path string `yaml:"path,omitempty"`
	// Bucket is the JetStream KV bucket
	Bucket string `yaml:"bucket,omitempty"`
}

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// History backends.
const (
	HistoryNone   = "none"
	HistorySQLite = "sqlite"
	HistoryNATS   = "nats"
)

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	defaults := equivalence.DefaultOptions()
	return &Config{
		Discovery: DiscoveryConfig{
			Pattern:       "*",
			ReferenceFile: "reference.ttl",
			CandidateFile: "nidm.ttl",
		},
		Comparison: ComparisonConfig{
			MaxSteps:         defaults.MaxSteps,
			Timeout:          defaults.Timeout,
			StrictBlankNodes: defaults.StrictBlankNodes,
		},
		Report: ReportConfig{
			Format:  FormatText,
			Subject: "nidmcheck.report",
		},
		History: HistoryConfig{
			Backend: HistoryNone,
			Path:    ".nidmcheck/history.db",
			Bucket:  "NIDMCHECK_RUNS",
		},
		Parallelism: 4,
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1")
	}
	if c.Comparison.Timeout < 0 {
		return fmt.Errorf("comparison.timeout must not be negative")
	}
	if !slices.Contains([]string{FormatText, FormatJSON}, c.Report.Format) {
		return fmt.Errorf("report.format must be %q or %q, got %q", FormatText, FormatJSON, c.Report.Format)
	}
	switch c.History.Backend {
	case HistoryNone:
	case HistorySQLite:
		if c.History.Path == "" {
			return fmt.Errorf("history.path is required for the sqlite backend")
		}
	case HistoryNATS:
		if c.History.Bucket == "" {
			return fmt.Errorf("history.bucket is required for the nats backend")
		}
		if c.Report.NATSURL == "" {
			return fmt.Errorf("report.nats_url is required for the nats history backend")
		}
	default:
		return fmt.Errorf("history.backend must be none, sqlite or nats, got %q", c.History.Backend)
	}
	if c.Discovery.Root != "" {
		if c.Discovery.ReferenceFile == "" || c.Discovery.CandidateFile == "" {
			return fmt.Errorf("discovery.reference_file and discovery.candidate_file are required")
		}
	}

	seen := make(map[string]bool)
	for i, ex := range c.Examples {
		if ex.Name == "" {
			return fmt.Errorf("examples[%d].name is required", i)
		}
		if ex.Reference == "" || ex.Candidate == "" {
			return fmt.Errorf("example %q needs both reference and candidate", ex.Name)
		}
		if seen[ex.Name] {
			return fmt.Errorf("duplicate example name %q", ex.Name)
		}
		seen[ex.Name] = true
	}
	return nil
}

// ComparisonOptions converts the comparison section into search options
func (c *Config) ComparisonOptions() equivalence.Options {
	return equivalence.Options{
		MaxSteps:         c.Comparison.MaxSteps,
		Timeout:          c.Comparison.Timeout,
		StrictBlankNodes: c.Comparison.StrictBlankNodes,
	}
}

// LoadFromFile loads configuration from a YAML file. Keys absent from the
// file keep their default values.
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.overlay(path); err != nil {
		return nil, err
	}
	return config, nil
}

// overlay decodes a YAML file on top of c, leaving absent keys untouched.
// Relative example and discovery paths are resolved against the file.
func (c *Config) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var layer Config
	if err := yaml.Unmarshal(data, &layer); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	base := filepath.Dir(path)
	if layer.Ontology.Path != "" {
		c.Ontology.Path = resolve(base, layer.Ontology.Path)
	}
	if layer.Discovery.Root != "" {
		c.Discovery.Root = resolve(base, layer.Discovery.Root)
	}
	if layer.Examples != nil {
		for i := range c.Examples {
			c.Examples[i].Reference = resolve(base, c.Examples[i].Reference)
			c.Examples[i].Candidate = resolve(base, c.Examples[i].Candidate)
		}
	}
	return nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values). Examples are appended; an example whose name already
// exists is replaced.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Ontology
	if other.Ontology.Path != "" {
		c.Ontology.Path = other.Ontology.Path
	}
	if other.Ontology.IncludeVocabulary {
		c.Ontology.IncludeVocabulary = true
	}

	// Examples
	for _, ex := range other.Examples {
		if i := slices.IndexFunc(c.Examples, func(e ExampleConfig) bool { return e.Name == ex.Name }); i >= 0 {
			c.Examples[i] = ex
			continue
		}
		c.Examples = append(c.Examples, ex)
	}

	// Discovery
	if other.Discovery.Root != "" {
		c.Discovery.Root = other.Discovery.Root
	}
	if other.Discovery.Pattern != "" {
		c.Discovery.Pattern = other.Discovery.Pattern
	}
	if other.Discovery.ReferenceFile != "" {
		c.Discovery.ReferenceFile = other.Discovery.ReferenceFile
	}
	if other.Discovery.CandidateFile != "" {
		c.Discovery.CandidateFile = other.Discovery.CandidateFile
	}

	// Comparison
	if other.Comparison.MaxSteps != 0 {
		c.Comparison.MaxSteps = other.Comparison.MaxSteps
	}
	if other.Comparison.Timeout != 0 {
		c.Comparison.Timeout = other.Comparison.Timeout
	}

	// Consistency
	if len(other.Consistency.ExternalNamespaces) > 0 {
		c.Consistency.ExternalNamespaces = other.Consistency.ExternalNamespaces
	}

	// Report
	if other.Report.Format != "" {
		c.Report.Format = other.Report.Format
	}
	if other.Report.NATSURL != "" {
		c.Report.NATSURL = other.Report.NATSURL
	}
	if other.Report.Subject != "" {
		c.Report.Subject = other.Report.Subject
	}

	// History
	if other.History.Backend != "" {
		c.History.Backend = other.History.Backend
	}
	if other.History.Path != "" {
		c.History.Path = other.History.Path
	}
	if other.History.Bucket != "" {
		c.History.Bucket = other.History.Bucket
	}

	if other.Parallelism != 0 {
		c.Parallelism = other.Parallelism
	}
}
