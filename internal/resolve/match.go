package resolve

import (
	"io/fs"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/f4ah6o/pagesrv/internal/config"
)

// Matcher compares a directory name with a path segment.
type Matcher struct {
	Mode config.MatchMode
	// Fold compares NFC-normalised, case-folded strings.
	Fold bool
}

// Match reports whether name satisfies segment under m. An empty segment
// never matches, since every name would contain it.
func (m Matcher) Match(name, segment string) bool {
	if segment == "" {
		return false
	}
	if m.Fold {
		name, segment = fold(name), fold(segment)
	}
	if m.Mode == config.MatchExact {
		return name == segment
	}
	return strings.Contains(name, segment)
}

// contains is Match in contains mode regardless of m.Mode.
func (m Matcher) contains(name, token string) bool {
	return Matcher{Mode: config.MatchContains, Fold: m.Fold}.Match(name, token)
}

// cases.Caser keeps state, so a new one is built per call.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// sortedDirs returns the directory entries of a listing ordered by name, so
// that the first match does not depend on listing order.
func sortedDirs(entries []fs.DirEntry) []fs.DirEntry {
	dirs := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		}
	}
	slices.SortFunc(dirs, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return dirs
}

// MatchLeaf picks the page directory for the last path segment out of a
// listing. An empty leaf selects the first directory whose name contains
// indexToken; any other leaf is compared with m. Only directories qualify.
func MatchLeaf(entries []fs.DirEntry, leaf, indexToken string, m Matcher) (string, bool) {
	for _, e := range sortedDirs(entries) {
		if leaf == "" {
			if m.contains(e.Name(), indexToken) {
				return e.Name(), true
			}
			continue
		}
		if m.Match(e.Name(), leaf) {
			return e.Name(), true
		}
	}
	return "", false
}
