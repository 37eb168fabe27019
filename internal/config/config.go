// Package config holds the settings that drive path resolution and serving.
package config

import (
	"fmt"
	"io/fs"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// MatchMode selects how a path segment is compared against a directory name.
type MatchMode string

const (
	// MatchExact requires the directory name to equal the segment.
	MatchExact MatchMode = "exact"
	// MatchContains accepts any directory name that contains the segment.
	MatchContains MatchMode = "contains"
)

// Config is the full set of directories, origins and naming conventions used
// by the resolver, the page assembler and the server.
//
// Directory fields are slash-separated and relative to Root. A Config is
// built once at startup and only read afterwards.
type Config struct {
	// Listen is the TCP address the server binds to.
	Listen string `toml:"listen" yaml:"listen"`
	// Root is the directory every other directory is relative to.
	Root string `toml:"root" yaml:"root"`

	// PagesDir holds one directory per page, optionally nested.
	PagesDir string `toml:"pages_dir" yaml:"pages_dir"`
	// StylesDir holds the reserved stylesheets.
	StylesDir string `toml:"styles_dir" yaml:"styles_dir"`
	// ComponentsDir holds the header and footer fragments.
	ComponentsDir string `toml:"components_dir" yaml:"components_dir"`
	// AssetsDir holds the favicon.
	AssetsDir string `toml:"assets_dir" yaml:"assets_dir"`
	// RobotsFile is only consulted by the site checker.
	RobotsFile string `toml:"robots_file" yaml:"robots_file"`

	// HeadFragments are written, in order, before the page content.
	HeadFragments []string `toml:"head_fragments" yaml:"head_fragments"`
	// FootFragments are written, in order, after the page content.
	FootFragments []string `toml:"foot_fragments" yaml:"foot_fragments"`

	// Origins are stripped from a referrer, first match wins. Each ends in "/".
	// Unless set explicitly, the first origin is localhost on the Listen port.
	Origins []string `toml:"origins" yaml:"origins"`
	// originsSet records that Origins came from a config file.
	originsSet bool

	StylesheetExt  string   `toml:"stylesheet_ext" yaml:"stylesheet_ext"`
	ImageExts      []string `toml:"image_exts" yaml:"image_exts"`
	ReservedStyles []string `toml:"reserved_styles" yaml:"reserved_styles"`
	Favicon        string   `toml:"favicon" yaml:"favicon"`

	// IndexToken marks the homepage directory when the leaf segment is empty.
	IndexToken string `toml:"index_token" yaml:"index_token"`
	// IndexFile is the page file inside every page directory.
	IndexFile string `toml:"index_file" yaml:"index_file"`
	// NotFoundPage is the page directory used when nothing matches.
	NotFoundPage string `toml:"not_found_page" yaml:"not_found_page"`

	WalkMatch MatchMode `toml:"walk_match" yaml:"walk_match"`
	LeafMatch MatchMode `toml:"leaf_match" yaml:"leaf_match"`
	FoldCase  bool      `toml:"fold_case" yaml:"fold_case"`

	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// DefaultPort is the port the server listens on when nothing overrides Listen.
const DefaultPort = 8080

// Default returns the configuration matching the layout of the personal site:
// pages under public/pages, fragments under public/components and the favicon
// under assets.
func Default() *Config {
	return &Config{
		Listen:         fmt.Sprintf(":%d", DefaultPort),
		Root:           ".",
		PagesDir:       "public/pages",
		StylesDir:      "public/styles",
		ComponentsDir:  "public/components",
		AssetsDir:      "assets",
		RobotsFile:     "public/robots.txt",
		HeadFragments:  []string{"1_start_meta.txt", "2_start_links.txt", "3_start_header.txt"},
		FootFragments:  []string{"4_end_footer.txt"},
		Origins:        defaultOrigins(fmt.Sprintf(":%d", DefaultPort)),
		StylesheetExt:  ".css",
		ImageExts:      []string{".jpg", ".png", ".ico"},
		ReservedStyles: []string{"globals.css", "reset.css"},
		Favicon:        "favicon.ico",
		IndexToken:     "index",
		IndexFile:      "index.html",
		NotFoundPage:   "404",
		WalkMatch:      MatchExact,
		LeafMatch:      MatchContains,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

func defaultOrigins(listen string) []string {
	return []string{localOrigin(listen), "https://sammy.pizza/", "https://sammysamkough.com/"}
}

// localOrigin is the origin a browser on this machine uses for listen.
func localOrigin(listen string) string {
	port := fmt.Sprint(DefaultPort)
	if _, p, err := net.SplitHostPort(listen); err == nil && p != "" && p != "0" {
		port = p
	}
	return fmt.Sprintf("http://localhost:%s/", port)
}

// SetListen changes the listen address. Origins that were not configured
// explicitly follow the new port.
func (c *Config) SetListen(listen string) {
	c.Listen = listen
	if !c.originsSet {
		c.Origins = defaultOrigins(listen)
	}
}

// Load reads a TOML or YAML file on top of the defaults. Keys missing from the
// file keep their default value. An empty path returns the defaults.
func Load(file string) (*Config, error) {
	cfg := Default()
	if file == "" {
		return cfg, nil
	}

	// Left nil by the decoders when the file has no origins key.
	cfg.Origins = nil
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(file, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", file, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", file, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if cfg.Origins == nil {
		cfg.Origins = defaultOrigins(cfg.Listen)
	} else {
		cfg.originsSet = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that would make resolution ill-defined.
func (c *Config) Validate() error {
	dirs := map[string]string{
		"root":           c.Root,
		"pages_dir":      c.PagesDir,
		"styles_dir":     c.StylesDir,
		"components_dir": c.ComponentsDir,
		"assets_dir":     c.AssetsDir,
	}
	for name, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("config: %s must not be empty", name)
		}
		if name != "root" && !fs.ValidPath(path.Clean(dir)) {
			return fmt.Errorf("config: %s %q must be a relative path inside root", name, dir)
		}
	}
	if c.RobotsFile != "" && !fs.ValidPath(path.Clean(c.RobotsFile)) {
		return fmt.Errorf("config: robots_file %q must be a relative path inside root", c.RobotsFile)
	}
	for name, mode := range map[string]MatchMode{"walk_match": c.WalkMatch, "leaf_match": c.LeafMatch} {
		if mode != MatchExact && mode != MatchContains {
			return fmt.Errorf("config: %s: unknown match mode %q", name, mode)
		}
	}
	for _, origin := range c.Origins {
		if !strings.HasSuffix(origin, "/") {
			return fmt.Errorf("config: origin %q must end with a slash", origin)
		}
	}
	if c.StylesheetExt == "" || c.IndexFile == "" || c.NotFoundPage == "" {
		return fmt.Errorf("config: stylesheet_ext, index_file and not_found_page are required")
	}
	return nil
}
