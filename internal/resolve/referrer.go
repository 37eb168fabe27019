package resolve

import (
	"io/fs"
	"path"
	"strings"
)

// StripOrigin removes the first origin that prefixes referrer and returns the
// rest, without any query or fragment. A referrer matching no origin is
// returned whole, so the lookup lands under a path that does not exist.
func StripOrigin(referrer string, origins []string) string {
	rest := referrer
	for _, origin := range origins {
		if strings.HasPrefix(referrer, origin) {
			rest = strings.TrimPrefix(referrer, origin)
			break
		}
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// AssetPath joins the pages directory, the referrer remainder and the request
// path. It reports false when the result would leave pagesDir.
func AssetPath(pagesDir, remainder, reqPath string) (string, bool) {
	p := path.Join(pagesDir, remainder, reqPath)
	if !within(pagesDir, p) {
		return "", false
	}
	return p, true
}

func within(dir, p string) bool {
	dir = path.Clean(dir)
	if !fs.ValidPath(p) {
		return false
	}
	return dir == "." || p == dir || strings.HasPrefix(p, dir+"/")
}
