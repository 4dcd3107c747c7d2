// Package archive builds zip archives from a collected entry list and
// verifies, entry by entry, that the stored content hashes to the same
// digest as the source bytes that were streamed in.
package archive

import (
	"errors"

	"github.com/verizip/verizip/internal/collect"
)

var (
	// ErrReadFailure indicates a source file that could not be read
	// during the build
	ErrReadFailure = errors.New("source unreadable")

	// ErrWriteFailure indicates the archive could not be written or
	// finalised
	ErrWriteFailure = errors.New("archive write failed")

	// ErrArchiveUnreadable indicates the finished archive could not be
	// reopened for verification
	ErrArchiveUnreadable = errors.New("archive unreadable")
)

// Status of a single entry after verification
type Status string

const (
	StatusMatch      Status = "match"
	StatusMismatch   Status = "mismatch"
	StatusMissing    Status = "missing-in-archive"
	StatusUnreadable Status = "unreadable"
)

// Record holds the authoritative source-side digest for one archive
// entry, captured while its bytes were streamed into the zip
type Record struct {
	ArchivePath string
	Digest      string
}

// Job aggregates the entry list and output location for one archive
// build. It is read-only after construction except for the Records
// accumulated by Build.
type Job struct {
	Entries    []collect.Entry
	OutputPath string

	// Records is populated by Build, one per entry, in entry order
	Records []Record
}

// Result is the verification outcome for one entry
type Result struct {
	ArchivePath string
	Status      Status

	// Detail describes the discrepancy for non-match statuses
	Detail string
}

// Report is the outcome of a full verification sweep
type Report struct {
	// Results are in job entry order regardless of worker completion order
	Results []Result

	// Extra lists archive entries that no job entry accounts for
	Extra []string
}

// OK reports whether every entry matched and the archive holds nothing
// beyond the job's entries
func (r *Report) OK() bool {
	if len(r.Extra) > 0 {
		return false
	}

	for _, result := range r.Results {
		if result.Status != StatusMatch {
			return false
		}
	}

	return true
}

// Failures returns the results for entries that did not verify cleanly
func (r *Report) Failures() []Result {
	var failures []Result

	for _, result := range r.Results {
		if result.Status != StatusMatch {
			failures = append(failures, result)
		}
	}

	return failures
}
