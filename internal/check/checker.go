package check

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/f4ah6o/pagesrv/internal/config"
	"github.com/f4ah6o/pagesrv/internal/page"
	"github.com/f4ah6o/pagesrv/internal/resolve"
)

// Checker runs every check against one site tree.
type Checker struct {
	fsys     fs.FS
	cfg      *config.Config
	resolver *resolve.Resolver
	pages    *page.Assembler
	robots   *RobotsRules
	log      logrus.FieldLogger
}

// New returns a Checker reading from fsys, which is rooted at cfg.Root.
func New(fsys fs.FS, cfg *config.Config, opts Options, log logrus.FieldLogger) *Checker {
	return &Checker{
		fsys:     fsys,
		cfg:      cfg,
		resolver: resolve.New(fsys, cfg),
		pages:    page.NewAssembler(fsys, cfg),
		robots:   NewRobotsRules(fsys, cfg.RobotsFile, opts.UserAgent, log),
		log:      log,
	}
}

// Run checks the shared files, then each page in turn.
func (c *Checker) Run() (*Report, error) {
	report := &Report{}
	report.Findings = append(report.Findings, c.checkShared()...)

	refs, err := c.resolver.Pages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	report.Pages = len(refs)

	for _, ref := range refs {
		findings, err := c.checkPage(ref)
		if err != nil {
			return nil, err
		}
		report.Findings = append(report.Findings, findings...)
	}
	return report, nil
}

func (c *Checker) checkShared() []Finding {
	var findings []Finding
	fragments := append(append([]string{}, c.cfg.HeadFragments...), c.cfg.FootFragments...)
	for _, name := range fragments {
		file := c.pages.Fragment(name)
		if _, err := fs.Stat(c.fsys, file); err != nil {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Rule:     "missing-fragment",
				Message:  fmt.Sprintf("fragment %s cannot be read: every page request will fail", file),
			})
		}
	}

	notFound := c.pages.File(path.Clean(c.cfg.PagesDir), "")
	if _, err := fs.Stat(c.fsys, notFound); err != nil {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Rule:     "missing-not-found-page",
			Message:  fmt.Sprintf("%s is missing: unmatched page requests will fail", notFound),
		})
	}
	return findings
}

func (c *Checker) checkPage(ref resolve.PageRef) ([]Finding, error) {
	var findings []Finding
	add := func(sev Severity, rule, msg, attr string) {
		findings = append(findings, Finding{Page: ref.URL, Severity: sev, Rule: rule, Message: msg, Ref: attr})
	}

	target, err := c.resolver.Page(ref.URL)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref.URL, err)
	}
	if got := c.pages.File(target.Dir, target.Page); got != ref.File {
		add(SeverityWarning, "unreachable-page", fmt.Sprintf("%s serves %s instead of %s", ref.URL, got, ref.File), "")
	}

	if c.robots.Present() && !c.robots.IsAllowed(ref.URL) {
		add(SeverityInfo, "robots-disallowed", "page is disallowed by robots.txt", "")
	}

	content, err := fs.ReadFile(c.fsys, ref.File)
	if err != nil {
		add(SeverityError, "unreadable-page", err.Error(), "")
		return findings, nil
	}
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		add(SeverityError, "invalid-html", err.Error(), "")
		return findings, nil
	}

	for _, src := range imageSources(doc) {
		if f, ok := c.checkRef(ref.URL, src, resolve.KindImage); !ok {
			add(f.Severity, f.Rule, f.Message, src)
		}
	}
	for _, href := range stylesheetLinks(doc) {
		if f, ok := c.checkRef(ref.URL, href, resolve.KindStylesheet); !ok {
			add(f.Severity, f.Rule, f.Message, href)
		}
	}
	return findings, nil
}

// checkRef replays the request a browser would make for ref while viewing
// pageURL, including the Referer header, and reports whether it resolves to
// an existing file of the expected kind.
func (c *Checker) checkRef(pageURL, ref string, want resolve.Kind) (Finding, bool) {
	reqPath, ok := requestPath(pageURL, ref)
	if !ok {
		return Finding{}, true
	}

	referrer := ""
	if len(c.cfg.Origins) > 0 {
		referrer = c.cfg.Origins[0] + strings.TrimPrefix(pageURL, "/")
	}
	target, err := c.resolver.Resolve(reqPath, referrer)
	if err != nil {
		return Finding{Severity: SeverityError, Rule: "unresolvable-" + want.String(), Message: err.Error()}, false
	}
	if target.Kind != want {
		return Finding{
			Severity: SeverityWarning,
			Rule:     "unserved-" + want.String(),
			Message:  fmt.Sprintf("%s is handled as a %s, not a %s", reqPath, target.Kind, want),
		}, false
	}
	if target.File == "" {
		return Finding{Severity: SeverityError, Rule: "missing-" + want.String(), Message: fmt.Sprintf("%s leaves the site", reqPath)}, false
	}
	if _, err := fs.Stat(c.fsys, target.File); err != nil {
		return Finding{
			Severity: SeverityError,
			Rule:     "missing-" + want.String(),
			Message:  fmt.Sprintf("%s resolves to %s, which does not exist", reqPath, target.File),
		}, false
	}
	return Finding{}, true
}

// requestPath resolves ref against pageURL. External and empty references
// are skipped.
func requestPath(pageURL, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	base := &url.URL{Path: pageURL}
	return base.ResolveReference(u).Path, true
}

func imageSources(doc *html.Node) []string {
	var srcs []string
	goquery.NewDocumentFromNode(doc).Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		srcs = append(srcs, src)
	})
	return srcs
}

// stylesheetLinks collects the href of every <link> whose rel includes
// "stylesheet".
func stylesheetLinks(doc *html.Node) []string {
	var hrefs []string
	goquery.NewDocumentFromNode(doc).Find("link[rel~=stylesheet][href]").Each(func(_ int, s *goquery.Selection) {
		if href, _ := s.Attr("href"); href != "" {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}
