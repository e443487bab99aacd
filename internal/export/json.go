package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/willowtrade/willow/internal/screener"
)

// SaveJSON writes the full result, spreads and run bookkeeping included,
// to a timestamped JSON file in dir. Unlike CSV and Excel, empty results
// are saved too so the API can report runs that found nothing.
func SaveJSON(dir string, result *screener.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	path := filepath.Join(dir, result.Timestamp.Format(fileStamp)+"_result.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write result file: %w", err)
	}
	return path, nil
}

// LoadJSON reads one saved result file.
func LoadJSON(path string) (*screener.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result file: %w", err)
	}

	var result screener.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse result file %s: %w", filepath.Base(path), err)
	}
	return &result, nil
}

// ListResults returns the saved result file paths in dir, newest first.
// The timestamped filenames make lexical order chronological.
func ListResults(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read results dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), "_result.json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

// LoadLatest reads the most recent saved result, or nil when none exist.
func LoadLatest(dir string) (*screener.Result, error) {
	paths, err := ListResults(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}
	return LoadJSON(paths[0])
}
