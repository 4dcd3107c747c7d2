// Package runner sequences collection, building, and verification for
// one archive job and maps the outcome to a process exit code.
package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verizip/verizip/internal/archive"
	"github.com/verizip/verizip/internal/codes"
	"github.com/verizip/verizip/internal/collect"
	"github.com/verizip/verizip/internal/config"
	"github.com/verizip/verizip/internal/utils"
)

const timestampFormat = "2006-01-02_15-04-05"

// Runner executes verified-archival jobs. The working directory and
// clock are injected so default output naming is deterministic under
// test rather than depending on ambient process state.
type Runner struct {
	WorkDir string
	Now     func() time.Time
	Out     io.Writer
	Err     io.Writer
}

// New creates a runner rooted at the given working directory
func New(workDir string) *Runner {
	return &Runner{
		WorkDir: workDir,
		Now:     time.Now,
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
}

// Run collects the sources, builds the archive, and verifies it,
// returning the process exit code and a one-line summary. This is the
// single call external shims (Finder integration, notifications) use.
func (r *Runner) Run(sources []string, cfg *config.Config) (int, string) {
	runTime := r.Now()

	outputPath, err := r.outputPath(sources, cfg, runTime)
	if err != nil {
		fmt.Fprintln(r.Err, err)
		return codes.WriteFailure, err.Error()
	}

	rootDir := ""
	if cfg.RootDirectory {
		rootDir = sharedRootName(sources, outputPath)
	}

	entries, err := collect.Collect(sources, collect.Options{
		IgnoreDotfiles:             cfg.IgnoreDotfiles,
		IgnoreWindowsVolumeFolders: cfg.IgnoreWindowsVolumeFolders,
		RootDir:                    rootDir,
	})
	if err != nil {
		fmt.Fprintln(r.Err, err)
		return collectCode(err), err.Error()
	}

	for _, source := range sources {
		var count int
		var size int64

		for _, entry := range entries {
			if entry.Source == source {
				count++
				size += entry.Size
			}
		}

		fmt.Fprintf(r.Out, "'%s' contains %d files (%s) for compression\n",
			source, count, utils.FormatBytes(size))
	}

	fmt.Fprintf(r.Out, "Compressing %d files (%s) into '%s'\n",
		len(entries), utils.FormatBytes(collect.TotalSize(entries)), outputPath)

	if cfg.Verbose {
		for _, entry := range entries {
			fmt.Fprintf(r.Out, "  %s\n", entry.ArchivePath)
		}
	}

	job := &archive.Job{Entries: entries, OutputPath: outputPath}

	if err := archive.Build(job); err != nil {
		// Build deletes its own partial archive; keep the diagnostic
		r.writeErrorLog(outputPath, runTime, []string{err.Error()})
		fmt.Fprintln(r.Err, err)

		return buildCode(err), err.Error()
	}

	fmt.Fprintf(r.Out, "'%s' finalised - will now be verified\n", outputPath)

	report, err := archive.Verify(job)
	if err != nil {
		r.writeErrorLog(outputPath, runTime, []string{err.Error()})
		fmt.Fprintln(r.Err, err)

		return codes.ArchiveUnreadable, err.Error()
	}

	if report.OK() {
		return codes.OK, fmt.Sprintf("'%s' created and verified (%d files)", outputPath, len(entries))
	}

	lines := discrepancyLines(report)
	for _, line := range lines {
		fmt.Fprintln(r.Err, line)
	}

	logPath := r.writeErrorLog(outputPath, runTime, lines)
	r.remove(outputPath)

	summary := fmt.Sprintf("'%s' failed verification (%d discrepancies across %d entries) - see '%s'",
		outputPath, len(lines), len(entries), logPath)

	return codes.VerificationFailed, summary
}

// outputPath resolves where the archive will be written. An explicit
// path is refused when it already exists; derived names are suffixed
// until free.
func (r *Runner) outputPath(sources []string, cfg *config.Config, runTime time.Time) (string, error) {
	if cfg.OutputPath != "" {
		if _, err := os.Stat(cfg.OutputPath); err == nil {
			return "", fmt.Errorf("output path '%s' already exists", cfg.OutputPath)
		}

		return cfg.OutputPath, nil
	}

	var name string
	if len(sources) == 1 {
		base := filepath.Base(absPath(sources[0]))
		name = strings.TrimSuffix(base, filepath.Ext(base)) + ".zip"
	} else {
		name = runTime.Format(timestampFormat) + "_archive.zip"
	}

	return safePath(filepath.Join(r.WorkDir, name)), nil
}

// sharedRootName picks the synthetic parent folder for root-directory
// mode: the single source's base name, or the archive's own base name
// when several sources are given.
func sharedRootName(sources []string, outputPath string) string {
	if len(sources) == 1 {
		return filepath.Base(absPath(sources[0]))
	}

	base := filepath.Base(outputPath)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// safePath returns path, or a '_2'/'_3'-suffixed sibling if a file
// already exists there
func safePath(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	candidate := path
	for suffix := 2; ; suffix++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}

		candidate = fmt.Sprintf("%s_%d%s", stem, suffix, ext)
	}
}

// writeErrorLog records every discrepancy beside the archive so the
// diagnostic survives when the failed archive itself is deleted.
// Returns the log path, or "" if the log could not be written.
func (r *Runner) writeErrorLog(outputPath string, runTime time.Time, lines []string) string {
	logPath := filepath.Join(filepath.Dir(outputPath), runTime.Format(timestampFormat)+"_verizip_error.txt")

	f, err := os.Create(logPath)
	if err != nil {
		fmt.Fprintf(r.Err, "failed to write error log '%s': %v\n", logPath, err)
		return ""
	}
	defer f.Close()

	for _, line := range lines {
		fmt.Fprintln(f, line)
	}

	return logPath
}

// remove deletes a failed or partial archive
func (r *Runner) remove(outputPath string) {
	if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(r.Err, "failed to remove '%s': %v\n", outputPath, err)
	}
}

func discrepancyLines(report *archive.Report) []string {
	var lines []string

	for _, failure := range report.Failures() {
		line := fmt.Sprintf("'%s': %s", failure.ArchivePath, failure.Status)
		if failure.Detail != "" {
			line += " (" + failure.Detail + ")"
		}

		lines = append(lines, line)
	}

	for _, name := range report.Extra {
		lines = append(lines, fmt.Sprintf("'%s': present in archive but not collected from source", name))
	}

	return lines
}

func collectCode(err error) int {
	switch {
	case errors.Is(err, collect.ErrSourceNotFound):
		return codes.SourceNotFound
	case errors.Is(err, collect.ErrNameCollision):
		return codes.NameCollision
	default:
		return codes.General
	}
}

func buildCode(err error) int {
	if errors.Is(err, archive.ErrReadFailure) {
		return codes.ReadFailure
	}

	return codes.WriteFailure
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return abs
}
