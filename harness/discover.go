package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Example is one reference/candidate pair to validate.
type Example struct {
	// Name labels every finding the example produces.
	Name      string `json:"name" yaml:"name"`
	Reference string `json:"reference" yaml:"reference"`
	Candidate string `json:"candidate" yaml:"candidate"`
}

// Discover finds example directories under root matching pattern and
// returns one example for each directory that holds both referenceFile and
// candidateFile. Supports both single-level wildcards (*) and recursive
// wildcards (**).
//
// Examples are named by their directory relative to root, with forward
// slashes, and returned in name order.
func Discover(root, pattern, referenceFile, candidateFile string) ([]Example, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("discovery root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("discovery root is not a directory: %s", absRoot)
	}
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(absRoot), pattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var examples []Example
	for _, match := range matches {
		dir := filepath.Join(absRoot, filepath.FromSlash(match))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue // Skip files and paths that can't be stat'd
		}

		ref := filepath.Join(dir, referenceFile)
		cand := filepath.Join(dir, candidateFile)
		if !isFile(ref) || !isFile(cand) {
			continue
		}
		examples = append(examples, Example{
			Name:      match,
			Reference: ref,
			Candidate: cand,
		})
	}

	sort.Slice(examples, func(i, j int) bool { return examples[i].Name < examples[j].Name })
	return examples, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
