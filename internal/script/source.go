package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReadSource produces the ordered raw lines of a script. path may be a
// single file or a directory; directory entries are concatenated in sorted
// filename order, skipping subdirectories and hidden files.
func ReadSource(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	if !info.IsDir() {
		return readLines(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading script directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("script directory %s has no files", path)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		part, err := readLines(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		lines = append(lines, part...)
	}
	return lines, nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
