// Package export converts the pages of a site tree into markdown documents.
package export

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/f4ah6o/pagesrv/internal/config"
	"github.com/f4ah6o/pagesrv/internal/resolve"
)

// Frontmatter is the YAML block written at the top of every exported file.
type Frontmatter struct {
	// Title comes from <title>, or the first <h1> when there is none.
	Title string `yaml:"title,omitempty"`
	// URL is the request path the page is served under.
	URL string `yaml:"url"`
	// Source is the page file, relative to the site root.
	Source string `yaml:"source"`
}

// Exporter writes markdown versions of pages. Only the page content is
// converted; the shared fragments are left out.
type Exporter struct {
	fsys      fs.FS
	resolver  *resolve.Resolver
	converter *md.Converter
	log       logrus.FieldLogger
}

// New returns an Exporter reading from fsys, which is rooted at cfg.Root.
func New(fsys fs.FS, cfg *config.Config, log logrus.FieldLogger) *Exporter {
	return &Exporter{
		fsys:      fsys,
		resolver:  resolve.New(fsys, cfg),
		converter: md.NewConverter("", true, nil),
		log:       log,
	}
}

// Export writes one markdown file per page under outDir and returns the
// files written, relative to outDir.
func (e *Exporter) Export(outDir string) ([]string, error) {
	refs, err := e.resolver.Pages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	written := make([]string, 0, len(refs))
	sources := make(map[string]string, len(refs))
	for _, ref := range refs {
		name := OutputName(ref.URL)
		if other, ok := sources[name]; ok {
			return written, fmt.Errorf("%s and %s both export to %s", other, ref.File, name)
		}
		sources[name] = ref.File

		doc, err := e.Render(ref)
		if err != nil {
			return written, err
		}
		target := filepath.Join(outDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, err
		}
		if err := os.WriteFile(target, doc, 0o644); err != nil {
			return written, err
		}
		e.log.WithFields(logrus.Fields{"url": ref.URL, "file": name}).Debug("Exported page")
		written = append(written, name)
	}
	return written, nil
}

// Render returns the markdown document for one page.
func (e *Exporter) Render(ref resolve.PageRef) ([]byte, error) {
	content, err := fs.ReadFile(e.fsys, ref.File)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", ref.File, err)
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	doc.Find("title").Remove()

	body, err := doc.Find("body").Html()
	if err != nil {
		return nil, err
	}
	markdown, err := e.converter.ConvertString(body)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", ref.File, err)
	}

	front, err := yaml.Marshal(Frontmatter{Title: title, URL: ref.URL, Source: ref.File})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(front)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimSpace(markdown))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// OutputName maps a page URL to a markdown file name. URLs ending in a
// slash become index files.
func OutputName(url string) string {
	name := strings.TrimPrefix(url, "/")
	if name == "" || strings.HasSuffix(name, "/") {
		return path.Join(name, "index.md")
	}
	return name + ".md"
}
