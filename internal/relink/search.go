package relink

import (
	"os"
	"path/filepath"
	"strings"
)

// SearchCollection scans every date-named sub-folder under the clips root
// and returns full paths of files whose name contains the substring,
// case-insensitively. Unranked: this is the fallback when auto-relink
// cannot produce a suggestion.
func (m *Matcher) SearchCollection(substring string) ([]string, error) {
	needle := strings.ToLower(strings.TrimSpace(substring))
	if needle == "" {
		return nil, nil
	}

	roots, err := os.ReadDir(m.clipsRoot)
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, root := range roots {
		if !root.IsDir() || !isDateFolder(root.Name()) {
			continue
		}
		folder := filepath.Join(m.clipsRoot, root.Name())
		entries, err := os.ReadDir(folder)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.Contains(strings.ToLower(entry.Name()), needle) {
				matches = append(matches, filepath.Join(folder, entry.Name()))
			}
		}
	}
	return matches, nil
}
