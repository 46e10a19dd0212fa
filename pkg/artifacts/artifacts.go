// Package artifacts tracks the Oracle installer archives the guided
// installation expects to find locally before it can offer concrete
// extraction and install commands.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Requirement describes one installer artifact the wizard depends on.
// Every keyword must appear in the normalized candidate filename.
type Requirement struct {
	ID       string
	Keywords []string
	Name     string
	URL      string
}

// Catalog is the fixed set of required artifacts, in presentation order.
// It never changes at runtime.
var Catalog = []Requirement{
	{
		ID:       "java",
		Keywords: []string{"jdk", "linux"},
		Name:     "Java Development Kit for Linux x64",
		URL:      "https://www.oracle.com/java/technologies/downloads/",
	},
	{
		ID:       "apex",
		Keywords: []string{"apex"},
		Name:     "Oracle APEX bundle",
		URL:      "https://www.oracle.com/tools/downloads/apex-downloads/",
	},
	{
		ID:       "ords",
		Keywords: []string{"ords"},
		Name:     "Oracle REST Data Services (ORDS)",
		URL:      "https://www.oracle.com/database/technologies/appdev/rest-data-services-downloads.html",
	},
}

// Matches maps a requirement ID to the archive path discovered for it.
// A missing entry means the artifact was not found, which is an expected
// state rather than an error.
type Matches map[string]string

// Scan walks root and records the first file matching each catalog
// requirement. Files of a directory are considered before its
// subdirectories, both in name order, so repeated scans over the same tree
// always resolve the same paths. Unreadable directories are skipped.
func Scan(root string) Matches {
	matches := make(Matches)
	scanDir(root, matches)
	return matches
}

func scanDir(dir string, matches Matches) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Best-effort discovery: keep scanning the rest of the tree.
		return
	}

	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
			continue
		}
		name := normalize(entry.Name())
		for _, req := range Catalog {
			if _, ok := matches[req.ID]; ok {
				continue
			}
			if containsAll(name, req.Keywords) {
				matches[req.ID] = filepath.Join(dir, entry.Name())
			}
		}
	}

	if len(matches) == len(Catalog) {
		return
	}
	for _, sub := range subdirs {
		scanDir(sub, matches)
	}
}

// MissingReport emits one download note per artifact absent from matches,
// in catalog order.
func MissingReport(matches Matches) []string {
	var notes []string
	for _, req := range Catalog {
		if _, ok := matches[req.ID]; ok {
			continue
		}
		notes = append(notes, fmt.Sprintf("Missing %s. Download it from %s", req.Name, req.URL))
	}
	return notes
}

// Summary reports the resolved path, or absence, of every catalog entry in
// catalog order.
func Summary(matches Matches) []string {
	lines := make([]string, 0, len(Catalog))
	for _, req := range Catalog {
		if path, ok := matches[req.ID]; ok {
			lines = append(lines, fmt.Sprintf("%s: %s", req.Name, path))
		} else {
			lines = append(lines, fmt.Sprintf("%s: not found", req.Name))
		}
	}
	return lines
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}

func containsAll(name string, keywords []string) bool {
	for _, keyword := range keywords {
		if !strings.Contains(name, keyword) {
			return false
		}
	}
	return true
}
