package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"

	"github.com/verizip/verizip/internal/collect"
)

// Build creates the zip archive for the job, committing entries in the
// fixed order established by collection. Each source file is read
// exactly once: its bytes are hashed while they stream into the zip
// entry, and the digest recorded on the job is the authoritative
// source-side digest used by Verify. A partially written archive is
// deleted on failure; an unverified partial must not be left looking
// trustworthy.
func Build(job *Job) error {
	out, err := os.OpenFile(job.OutputPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: cannot create '%s': %v", ErrWriteFailure, job.OutputPath, err)
	}

	zw := zip.NewWriter(out)

	for _, entry := range job.Entries {
		if err := addEntry(zw, job, entry); err != nil {
			zw.Close()
			out.Close()
			os.Remove(job.OutputPath)

			return err
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(job.OutputPath)

		return fmt.Errorf("%w: cannot finalise '%s': %v", ErrWriteFailure, job.OutputPath, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(job.OutputPath)
		return fmt.Errorf("%w: cannot finalise '%s': %v", ErrWriteFailure, job.OutputPath, err)
	}

	return nil
}

// addEntry streams one source file into the archive, hashing as it goes.
// Zero-byte files are valid and produce empty entries.
func addEntry(zw *zip.Writer, job *Job, entry collect.Entry) error {
	src, err := os.Open(entry.AbsolutePath)
	if err != nil {
		return fmt.Errorf("%w: '%s': %v", ErrReadFailure, entry.AbsolutePath, err)
	}
	defer src.Close()

	// zip.Writer.Create defaults to deflate and enables zip64 when
	// sizes demand it
	w, err := zw.Create(entry.ArchivePath)
	if err != nil {
		return fmt.Errorf("%w: cannot add '%s': %v", ErrWriteFailure, entry.ArchivePath, err)
	}

	d := NewDigester()

	buf := make([]byte, blockSize)
	if _, err := io.CopyBuffer(io.MultiWriter(w, d), src, buf); err != nil {
		return fmt.Errorf("%w: '%s': %v", ErrWriteFailure, entry.ArchivePath, err)
	}

	job.Records = append(job.Records, Record{
		ArchivePath: entry.ArchivePath,
		Digest:      d.Sum(),
	})

	return nil
}
