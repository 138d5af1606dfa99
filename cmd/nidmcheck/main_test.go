package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/nidmcheck/export"
	"github.com/c360studio/nidmcheck/graph"
	"github.com/c360studio/nidmcheck/harness"
	"github.com/c360studio/nidmcheck/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	passRef  = "testdata/examples/spm_001/reference.ttl"
	passCand = "testdata/examples/spm_001/nidm.ttl"
	failRef  = "testdata/examples/fsl_002/reference.ttl"
	failCand = "testdata/examples/fsl_002/nidm.ttl"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Keep the developer's user config out of the test.
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nidmcheck version "+Version)
}

func TestValidatePasses(t *testing.T) {
	out, err := execute(t, "validate", "--reference", passRef, "--candidate", passCand)
	require.NoError(t, err)
	assert.Contains(t, out, "No findings.")
	assert.Contains(t, out, "1 example(s): 1 passed, 0 failed")
}

func TestValidateReportsFindings(t *testing.T) {
	out, err := execute(t, "validate", "-r", failRef, "-d", failCand, "--label", "fsl_002")
	assert.True(t, errors.Is(err, errValidationFailed), "err = %v", err)
	assert.Contains(t, out, "finding(s) in fsl_002")
	assert.Contains(t, out, "FakePeak")
	assert.Contains(t, out, "Missing statements")
}

func TestValidateJSON(t *testing.T) {
	out, err := execute(t, "validate", "-r", passRef, "-d", passCand, "--json")
	require.NoError(t, err)

	var rep struct {
		RunID    string `json:"run_id"`
		Examples []struct {
			Name    string `json:"name"`
			Verdict string `json:"verdict"`
		} `json:"examples"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.NotEmpty(t, rep.RunID)
	require.Len(t, rep.Examples, 1)
	assert.Equal(t, "nidm.ttl", rep.Examples[0].Name)
	assert.Equal(t, "equivalent", rep.Examples[0].Verdict)
}

func TestValidateZeroBudgetIsInconclusive(t *testing.T) {
	out, err := execute(t, "validate", "-r", passRef, "-d", passCand, "--max-steps", "0")
	assert.True(t, errors.Is(err, errValidationFailed))
	assert.Contains(t, out, "Comparison timeouts")
}

func TestValidateErrors(t *testing.T) {
	_, err := execute(t, "validate", "--reference", passRef)
	assert.Error(t, err, "missing --candidate")

	out, err := execute(t, "validate", "-r", passRef, "-d", "testdata/missing.ttl")
	assert.True(t, errors.Is(err, errValidationFailed))
	assert.Contains(t, out, "FAIL missing.ttl")

	_, err = execute(t, "validate", "-r", passRef, "-d", passCand, "--ontology", "testdata/missing.ttl")
	assert.Error(t, err)
}

func TestValidateWritesMappedCandidate(t *testing.T) {
	mapped := filepath.Join(t.TempDir(), "mapped.nt")
	_, err := execute(t, "validate", "-r", passRef, "-d", passCand, "--write-mapped", mapped)
	require.NoError(t, err)

	got, err := os.ReadFile(mapped)
	require.NoError(t, err)

	ref, err := graph.LoadFile(passRef)
	require.NoError(t, err)
	want, err := export.NewExporter().Export(ref, export.FormatNTriples)
	require.NoError(t, err)

	// An equivalent candidate relabeled onto the reference serializes
	// exactly like the reference.
	assert.Equal(t, want, string(got))

	_, err = execute(t, "validate", "-r", passRef, "-d", passCand, "--write-mapped", filepath.Join(t.TempDir(), "mapped.csv"))
	assert.Error(t, err)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nidmcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestBatchAndHistory(t *testing.T) {
	root, err := filepath.Abs("testdata/examples")
	require.NoError(t, err)
	db := filepath.Join(t.TempDir(), "history.db")

	cfg := writeConfig(t, `
discovery:
  root: `+root+`
  pattern: "*"
  reference_file: reference.ttl
  candidate_file: nidm.ttl
history:
  backend: sqlite
  path: `+db+`
parallelism: 2
`)

	out, err := execute(t, "--config", cfg, "batch")
	assert.True(t, errors.Is(err, errValidationFailed))
	assert.Contains(t, out, "2 example(s): 1 passed, 1 failed")

	out, err = execute(t, "--config", cfg, "history", "--limit", "5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "RUN ID")
	runID := strings.Fields(lines[1])[0]

	out, err = execute(t, "--config", cfg, "history", runID)
	require.NoError(t, err)
	assert.Contains(t, out, "2 example(s): 1 passed, 1 failed")

	_, err = execute(t, "--config", cfg, "history", "no-such-run")
	assert.Error(t, err)
}

func TestBatchWithoutExamples(t *testing.T) {
	cfg := writeConfig(t, "parallelism: 1\n")
	_, err := execute(t, "--config", cfg, "batch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no examples")
}

func TestHistoryRequiresBackend(t *testing.T) {
	cfg := writeConfig(t, "history:\n  backend: none\n")
	_, err := execute(t, "--config", cfg, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history.backend")
}

func TestAffectedExamples(t *testing.T) {
	cand, err := filepath.Abs(failCand)
	require.NoError(t, err)

	examples := []harness.Example{
		{Name: "spm_001", Reference: passRef, Candidate: passCand},
		{Name: "fsl_002", Reference: failRef, Candidate: failCand},
	}
	got := affectedExamples(examples, watch.Event{Path: cand, Op: watch.OpModify})
	require.Len(t, got, 1)
	assert.Equal(t, "fsl_002", got[0].Name)

	assert.Empty(t, affectedExamples(examples, watch.Event{Path: "/elsewhere/nidm.ttl"}))
}
