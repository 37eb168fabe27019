package resolve

import (
	"path"
	"strings"
)

const (
	contentTypeCSS     = "text/css"
	contentTypeJPEG    = "image/jpeg"
	contentTypeFavicon = "image/x-icon"
)

// reservedStylesheet returns the fixed location of a reserved stylesheet when
// p ends with one of the reserved names.
func reservedStylesheet(p, stylesDir string, names []string) (string, bool) {
	for _, name := range names {
		if name != "" && strings.HasSuffix(p, name) {
			return path.Join(stylesDir, name), true
		}
	}
	return "", false
}

// reservedImage returns the fixed favicon location when p ends with favicon.
func reservedImage(p, assetsDir, favicon string) (string, bool) {
	if favicon != "" && strings.HasSuffix(p, favicon) {
		return path.Join(assetsDir, favicon), true
	}
	return "", false
}
