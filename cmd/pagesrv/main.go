// Package main is the pagesrv command: it serves the personal site and can
// check or export its pages.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/f4ah6o/pagesrv/internal/config"
)

// errFindings makes the process exit non-zero without printing anything more.
var errFindings = errors.New("check reported errors")

const usage = `Usage: pagesrv [command] [flags]

Commands:
  serve    serve the site (default)
  check    report pages and references the server cannot resolve
  export   write every page as a markdown file

Run "pagesrv <command> -h" for the flags of a command.
`

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		color.Red("Failed to load .env: %v", err)
		os.Exit(1)
	}

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe(args)
	case "check":
		err = runCheck(args)
	case "export":
		err = runExport(args)
	case "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if errors.Is(err, errFindings) {
		os.Exit(1)
	}
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// siteFlags registers the flags every command shares.
type siteFlags struct {
	config *string
	root   *string
}

func newSiteFlags(fs *flag.FlagSet) siteFlags {
	return siteFlags{
		config: fs.String("config", "", "Config file (.toml or .yaml); defaults to $"+config.EnvConfig),
		root:   fs.String("root", "", "Site root directory, overriding the config"),
	}
}

// load reads the config and makes Root absolute after checking it exists.
func (f siteFlags) load() (*config.Config, error) {
	cfg, err := config.Resolve(*f.config)
	if err != nil {
		return nil, err
	}
	if *f.root != "" {
		cfg.Root = *f.root
	}
	absRoot, err := absDir(cfg.Root)
	if err != nil {
		return nil, err
	}
	cfg.Root = absRoot
	return cfg, nil
}
