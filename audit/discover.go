package audit

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ListDocuments returns the documents under dir matching the glob
// patterns, lexicographically sorted, as slash-separated paths relative to
// dir. The listing is recomputed from the file system on every call; the
// rotation never works from a cached list.
func ListDocuments(dir string, patterns []string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", dir, err)
	}

	fsys := os.DirFS(dir)
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
