package resolve

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Segments splits a request path into the directory segments to walk and the
// leaf segment to match. Paths of at most two segments ("/", "/about") have no
// directory segments. The empty segment before the leading slash is dropped.
func Segments(p string) (dirs []string, leaf string) {
	parts := strings.Split(p, "/")
	leaf = parts[len(parts)-1]
	if len(parts) <= 2 {
		return nil, leaf
	}
	return parts[1 : len(parts)-1], leaf
}

// Step finds the subdirectory for one segment in a listing.
func Step(entries []fs.DirEntry, segment string, m Matcher) (string, bool) {
	for _, e := range sortedDirs(entries) {
		if m.Match(e.Name(), segment) {
			return e.Name(), true
		}
	}
	return "", false
}

// Walk descends from root through fsys, consuming segments left to right with
// one Step per level. It stops at the first segment that has no matching
// subdirectory and returns the deepest directory reached together with the
// number of segments consumed.
func Walk(fsys fs.FS, root string, segments []string, m Matcher) (dir string, depth int, err error) {
	dir = root
	for _, segment := range segments {
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return dir, depth, fmt.Errorf("list %s: %w", dir, err)
		}
		name, ok := Step(entries, segment, m)
		if !ok {
			break
		}
		dir = path.Join(dir, name)
		depth++
	}
	return dir, depth, nil
}
