package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Verify reopens the finished archive and recomputes a digest for every
// job entry, comparing against the source digests recorded during the
// build. The sweep never stops at the first discrepancy: every entry is
// checked and reported, so the caller gets a complete diagnostic.
//
// Entry hashing runs on a bounded worker pool; results land in a slice
// indexed by entry position, so the report order matches the job's
// entry order regardless of completion order.
func Verify(job *Job) (*Report, error) {
	zr, err := zip.OpenReader(job.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %v", ErrArchiveUnreadable, job.OutputPath, err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	results := make([]Result, len(job.Records))

	g := errgroup.Group{}
	g.SetLimit(runtime.NumCPU())

	for i, record := range job.Records {
		i, record := i, record
		g.Go(func() error {
			results[i] = verifyEntry(files[record.ArchivePath], record)
			return nil
		})
	}

	// Workers report discrepancies as statuses, never as errors
	_ = g.Wait()

	report := &Report{Results: results}

	known := make(map[string]struct{}, len(job.Records))
	for _, record := range job.Records {
		known[record.ArchivePath] = struct{}{}
	}

	for _, f := range zr.File {
		if _, ok := known[f.Name]; !ok {
			report.Extra = append(report.Extra, f.Name)
		}
	}

	sort.Strings(report.Extra)

	return report, nil
}

// verifyEntry recomputes the digest of one archive entry's stored bytes
// and compares it against the authoritative source digest. f is nil
// when the entry never made it into the archive.
func verifyEntry(f *zip.File, record Record) Result {
	if f == nil {
		return Result{
			ArchivePath: record.ArchivePath,
			Status:      StatusMissing,
			Detail:      "entry not present in archive",
		}
	}

	rc, err := f.Open()
	if err != nil {
		return Result{
			ArchivePath: record.ArchivePath,
			Status:      StatusUnreadable,
			Detail:      err.Error(),
		}
	}
	defer rc.Close()

	digest, err := HashReader(rc)
	if err != nil && !errors.Is(err, zip.ErrChecksum) {
		return Result{
			ArchivePath: record.ArchivePath,
			Status:      StatusUnreadable,
			Detail:      err.Error(),
		}
	}
	// A CRC failure still yields the full decompressed stream, so fall
	// through and let the digest comparison report the corruption

	if digest != record.Digest {
		return Result{
			ArchivePath: record.ArchivePath,
			Status:      StatusMismatch,
			Detail:      fmt.Sprintf("source digest %s, archive digest %s", record.Digest, digest),
		}
	}

	return Result{ArchivePath: record.ArchivePath, Status: StatusMatch}
}
