package resolve

import (
	"io/fs"
	"path"
	"strings"
)

// PageRef is a page directory found in the pages tree.
type PageRef struct {
	// Dir is the page directory, relative to the site root.
	Dir string
	// File is the page file inside Dir.
	File string
	// URL is the request path the directory is published under. The
	// directory an empty leaf resolves to is published as its parent with a
	// trailing slash.
	URL string
}

// Pages lists every directory under the pages tree that holds a page file,
// in lexical order. The not-found page is included.
func (r *Resolver) Pages() ([]PageRef, error) {
	root := path.Clean(r.cfg.PagesDir)
	var refs []PageRef
	err := fs.WalkDir(r.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || p == root {
			return nil
		}
		file := path.Join(p, r.cfg.IndexFile)
		if _, err := fs.Stat(r.fsys, file); err != nil {
			return nil
		}
		url, err := r.pageURL(root, p)
		if err != nil {
			return err
		}
		refs = append(refs, PageRef{Dir: p, File: file, URL: url})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// pageURL publishes dir as its parent only when the parent's index lookup
// picks dir; other names containing the index token keep their own URL.
func (r *Resolver) pageURL(root, dir string) (string, error) {
	rel := strings.TrimPrefix(dir, root+"/")
	parent, base := path.Split(rel)
	entries, err := fs.ReadDir(r.fsys, path.Dir(dir))
	if err != nil {
		return "", err
	}
	if index, ok := MatchLeaf(entries, "", r.cfg.IndexToken, r.leaf); ok && index == base {
		return "/" + parent, nil
	}
	return "/" + rel, nil
}
