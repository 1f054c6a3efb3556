package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// LocateFiling finds the filing document under dir by matching relative
// paths against the given glob patterns. Matches are sorted so discovery is
// deterministic; the first match wins (single-filing system).
func LocateFiling(dir string, patterns []string) (string, error) {
	if len(patterns) == 0 {
		patterns = []string{"**/*.htm", "**/*.html"}
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	var matches []string
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		for _, pattern := range patterns {
			matched, err := doublestar.Match(pattern, relPath)
			if err == nil && matched {
				matches = append(matches, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("no filing found under %s (patterns: %s)", dir, strings.Join(patterns, ", "))
	}

	sort.Strings(matches)
	return matches[0], nil
}

// ReadDocument reads the filing as text. Byte sequences that are not valid
// UTF-8 are dropped rather than failing the read.
func ReadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
