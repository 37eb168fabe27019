package resolve

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/f4ah6o/pagesrv/internal/config"
)

// Target is the outcome of resolving one request.
type Target struct {
	Kind Kind

	// File is the slash-separated path, relative to the site root, of the
	// stylesheet or image to send as is. It is empty for pages, and for
	// assets whose path would leave their directory.
	File        string
	ContentType string
	// Reserved is set when File came from a reserved name.
	Reserved bool

	// Dir is the deepest page directory the walk reached.
	Dir string
	// Page is the matched entry in Dir, empty when nothing matched.
	Page string
	// Depth is the number of directory segments the walk consumed.
	Depth int
}

// Matched reports whether a page request found its page directory.
func (t Target) Matched() bool {
	return t.Kind == KindPage && t.Page != ""
}

// Resolver resolves request paths against a read-only site tree.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	fsys fs.FS
	cfg  *config.Config
	walk Matcher
	leaf Matcher
}

// New returns a Resolver reading from fsys, which is rooted at cfg.Root.
func New(fsys fs.FS, cfg *config.Config) *Resolver {
	return &Resolver{
		fsys: fsys,
		cfg:  cfg,
		walk: Matcher{Mode: cfg.WalkMatch, Fold: cfg.FoldCase},
		leaf: Matcher{Mode: cfg.LeafMatch, Fold: cfg.FoldCase},
	}
}

// Classify returns the resource class of p.
func (r *Resolver) Classify(p string) Kind {
	return Classify(p, r.cfg.StylesheetExt, r.cfg.ImageExts)
}

// Resolve maps a request path, and for images the Referer header, onto the
// file to serve. Misses are reported through the Target, not as errors; an
// error means a directory listing failed.
func (r *Resolver) Resolve(reqPath, referrer string) (Target, error) {
	switch r.Classify(reqPath) {
	case KindStylesheet:
		return r.stylesheet(reqPath), nil
	case KindImage:
		return r.image(reqPath, referrer), nil
	default:
		return r.Page(reqPath)
	}
}

func (r *Resolver) stylesheet(p string) Target {
	t := Target{Kind: KindStylesheet, ContentType: contentTypeCSS}
	if file, ok := reservedStylesheet(p, r.cfg.StylesDir, r.cfg.ReservedStyles); ok {
		t.File, t.Reserved = file, true
		return t
	}
	t.File = strings.TrimPrefix(path.Clean("/"+p), "/")
	return t
}

func (r *Resolver) image(p, referrer string) Target {
	if file, ok := reservedImage(p, r.cfg.AssetsDir, r.cfg.Favicon); ok {
		return Target{Kind: KindImage, File: file, ContentType: contentTypeFavicon, Reserved: true}
	}
	t := Target{Kind: KindImage, ContentType: contentTypeJPEG}
	remainder := StripOrigin(referrer, r.cfg.Origins)
	if file, ok := AssetPath(r.cfg.PagesDir, remainder, p); ok {
		t.File = file
	}
	return t
}

// Page resolves a page path: walk the directory segments, then match the
// leaf in the directory reached.
func (r *Resolver) Page(p string) (Target, error) {
	dirs, leaf := Segments(p)
	dir, depth, err := Walk(r.fsys, path.Clean(r.cfg.PagesDir), dirs, r.walk)
	if err != nil {
		return Target{}, err
	}
	entries, err := fs.ReadDir(r.fsys, dir)
	if err != nil {
		return Target{}, fmt.Errorf("list %s: %w", dir, err)
	}
	name, _ := MatchLeaf(entries, leaf, r.cfg.IndexToken, r.leaf)
	return Target{Kind: KindPage, Dir: dir, Page: name, Depth: depth}, nil
}
