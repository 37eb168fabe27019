package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/f4ah6o/pagesrv/internal/check"
	"github.com/f4ah6o/pagesrv/internal/export"
	"github.com/f4ah6o/pagesrv/internal/server"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	site := newSiteFlags(fs)
	listen := fs.String("listen", "", "Address to listen on, overriding the config; the localhost referrer origin follows its port unless origins are configured")
	_ = fs.Parse(args)

	cfg, err := site.load()
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.SetListen(*listen)
	}

	log, err := server.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("🌐 Serving %s on %s\n", cfg.Root, cfg.Listen)
	fmt.Println("Press Ctrl+C to stop")

	return server.New(cfg, log).Run(ctx)
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	site := newSiteFlags(fs)
	jsonOut := fs.Bool("json", false, "Print the report as JSON")
	userAgent := fs.String("user-agent", "*", "robots.txt group to test pages against")
	_ = fs.Parse(args)

	cfg, err := site.load()
	if err != nil {
		return err
	}
	log, err := server.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	opts := check.Options{UserAgent: *userAgent, JSONOutput: *jsonOut}
	report, err := check.New(os.DirFS(cfg.Root), cfg, opts, log).Run()
	if err != nil {
		return err
	}
	if err := check.Print(os.Stdout, report, opts.JSONOutput); err != nil {
		return err
	}
	if report.Errors() > 0 {
		return errFindings
	}
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	site := newSiteFlags(fs)
	out := fs.String("out", "", "Directory to write markdown files to (required)")
	_ = fs.Parse(args)

	if *out == "" {
		fs.Usage()
		return fmt.Errorf("-out is required")
	}

	cfg, err := site.load()
	if err != nil {
		return err
	}
	log, err := server.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	written, err := export.New(os.DirFS(cfg.Root), cfg, log).Export(*out)
	if err != nil {
		return err
	}
	color.Green("✅ Exported %d pages to %s", len(written), *out)
	return nil
}

func absDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory: %w", err)
	}
	if _, err := os.Stat(absDir); os.IsNotExist(err) {
		return "", fmt.Errorf("directory does not exist: %s", absDir)
	}
	return absDir, nil
}
