// Package page builds HTML responses from a page file and the shared
// header and footer fragments.
package page

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"

	"github.com/f4ah6o/pagesrv/internal/config"
)

// ContentType is sent with every assembled page, the not-found page included.
const ContentType = "text/html; charset=utf-8"

// Assembler wraps page content in the configured fragments.
type Assembler struct {
	fsys fs.FS
	cfg  *config.Config
}

// NewAssembler returns an Assembler reading from fsys, rooted at cfg.Root.
func NewAssembler(fsys fs.FS, cfg *config.Config) *Assembler {
	return &Assembler{fsys: fsys, cfg: cfg}
}

// File returns the page file for a matched directory entry. An empty name
// selects the not-found page inside dir.
func (a *Assembler) File(dir, name string) string {
	if name == "" {
		name = a.cfg.NotFoundPage
	}
	return path.Join(dir, name, a.cfg.IndexFile)
}

// Assemble reads the page for name in dir and returns the head fragments,
// the page and the foot fragments concatenated in that order.
func (a *Assembler) Assemble(dir, name string) ([]byte, error) {
	content, err := fs.ReadFile(a.fsys, a.File(dir, name))
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return a.Wrap(content)
}

// Wrap surrounds content with the fragments.
func (a *Assembler) Wrap(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.writeFragments(&buf, a.cfg.HeadFragments); err != nil {
		return nil, err
	}
	buf.Write(content)
	if err := a.writeFragments(&buf, a.cfg.FootFragments); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *Assembler) writeFragments(buf *bytes.Buffer, names []string) error {
	for _, name := range names {
		data, err := fs.ReadFile(a.fsys, a.Fragment(name))
		if err != nil {
			return fmt.Errorf("read fragment %s: %w", name, err)
		}
		buf.Write(data)
	}
	return nil
}

// Fragment returns the location of a fragment file.
func (a *Assembler) Fragment(name string) string {
	return path.Join(a.cfg.ComponentsDir, name)
}
