package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Scan enumerates the direct children of dir and returns the recordings
// whose names match the filename contract, newest first. Subdirectories
// and non-matching names are skipped. On error the caller is expected to
// keep its previous listing; Scan never returns a partial result.
func Scan(dir string) ([]Recording, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}

	var recs []Recording
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rec, ok := ParseName(entry.Name())
		if !ok {
			continue
		}
		rec.Path = filepath.Join(dir, entry.Name())
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].FullDate.After(recs[j].FullDate)
	})

	return recs, nil
}
