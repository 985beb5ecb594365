package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/fitforge/internal/fit"
	"github.com/claude/fitforge/internal/models"
)

// Stats tracks export progress.
type Stats struct {
	FilesTotal    int
	FilesExported int
	FilesSkipped  int
	FilesErrored  int
	BytesWritten  int64
}

// Exporter walks a directory of workout spec JSON files and writes one
// .fit file per spec into the output directory.
type Exporter struct {
	encoder *fit.Encoder
	state   *StateDB
	inDir   string
	outDir  string
	force   bool
	dryRun  bool
	log     *slog.Logger
	stats   Stats
}

// New creates a new Exporter. state may be nil when -force is set.
func New(encoder *fit.Encoder, state *StateDB, inDir, outDir string, force, dryRun bool, log *slog.Logger) *Exporter {
	return &Exporter{
		encoder: encoder,
		state:   state,
		inDir:   inDir,
		outDir:  outDir,
		force:   force,
		dryRun:  dryRun,
		log:     log,
	}
}

// Run executes the export pipeline.
func (e *Exporter) Run() (*Stats, error) {
	entries, err := os.ReadDir(e.inDir)
	if err != nil {
		return &e.stats, fmt.Errorf("reading spec dir: %w", err)
	}

	var specs []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		specs = append(specs, entry.Name())
	}
	sort.Strings(specs)
	e.stats.FilesTotal = len(specs)

	if !e.dryRun {
		if err := os.MkdirAll(e.outDir, 0o755); err != nil {
			return &e.stats, fmt.Errorf("creating output dir: %w", err)
		}
	}

	for _, name := range specs {
		if err := e.exportOne(name); err != nil {
			e.stats.FilesErrored++
			e.log.Error("export failed", "file", name, "error", err)
		}
	}
	return &e.stats, nil
}

func (e *Exporter) exportOne(name string) error {
	path := filepath.Join(e.inDir, name)

	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	if !e.force && e.state != nil {
		done, err := e.state.IsExported(name, hash)
		if err != nil {
			return fmt.Errorf("checking state: %w", err)
		}
		if done {
			e.stats.FilesSkipped++
			e.log.Info("skipping unchanged spec", "file", name)
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}

	var spec models.WorkoutSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	buf, err := e.encoder.Encode(spec)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	outName := strings.TrimSuffix(name, ".json") + fit.FileExtension
	if e.dryRun {
		e.log.Info("would export", "file", name, "out", outName, "bytes", len(buf))
		e.stats.FilesExported++
		return nil
	}

	outPath := filepath.Join(e.outDir, outName)
	if err := os.WriteFile(outPath, buf, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	if e.state != nil {
		if err := e.state.MarkExported(name, hash); err != nil {
			e.log.Warn("state update failed", "file", name, "error", err)
		}
	}

	e.stats.FilesExported++
	e.stats.BytesWritten += int64(len(buf))
	e.log.Info("exported", "file", name, "out", outName, "bytes", len(buf))
	return nil
}
