package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/fitforge/internal/export"
	"github.com/claude/fitforge/internal/fit"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	inDir := flag.String("in", "", "directory of workout spec JSON files (required)")
	outDir := flag.String("out", ".", "output directory for .fit files")
	force := flag.Bool("force", false, "re-export specs even if unchanged")
	dryRun := flag.Bool("dry-run", false, "encode but don't write files or state")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fitforge-export", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *inDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: fitforge-export -in <spec dir> [-out <dir>] [-force] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*inDir)
	if err != nil || !info.IsDir() {
		log.Error("spec directory not found", "path", *inDir)
		os.Exit(1)
	}

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".fitforge-export")

	state, err := export.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *dryRun {
		log.Info("DRY RUN mode — specs will be encoded but nothing written")
	}

	exporter := export.New(fit.NewEncoder(), state, *inDir, *outDir, *force, *dryRun, log)
	stats, err := exporter.Run()
	if err != nil {
		log.Error("export failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	if stats.FilesErrored > 0 {
		os.Exit(1)
	}
	log.Info("export complete")
}

func printStats(log *slog.Logger, stats *export.Stats) {
	if stats == nil {
		return
	}
	log.Info("export stats",
		"total", stats.FilesTotal,
		"exported", stats.FilesExported,
		"skipped", stats.FilesSkipped,
		"errored", stats.FilesErrored,
		"bytes", stats.BytesWritten,
	)
}
