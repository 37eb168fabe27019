// Package resolve maps request paths onto files in the site tree.
//
// A request is first classified by its suffix. Stylesheets and images are
// resolved to a single file, either through a reserved name or, for images,
// through the referring page. Pages are resolved by walking the pages tree one
// segment at a time and then matching the leaf segment against the directory
// names found there.
package resolve

import "strings"

// Kind is the resource class of a request path.
type Kind int

const (
	// KindPage is any path that is neither a stylesheet nor an image.
	KindPage Kind = iota
	// KindStylesheet is a path ending in the stylesheet extension.
	KindStylesheet
	// KindImage is a path ending in one of the image extensions.
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindStylesheet:
		return "stylesheet"
	case KindImage:
		return "image"
	default:
		return "page"
	}
}

// Classify returns the resource class of p. The stylesheet extension is
// checked before the image extensions; everything else is a page.
func Classify(p, stylesheetExt string, imageExts []string) Kind {
	if stylesheetExt != "" && strings.HasSuffix(p, stylesheetExt) {
		return KindStylesheet
	}
	for _, ext := range imageExts {
		if ext != "" && strings.HasSuffix(p, ext) {
			return KindImage
		}
	}
	return KindPage
}
