package archive

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZip creates a zip at path with the given name -> content entries,
// in map-iteration-independent sorted order matching the names slice
func writeZip(t *testing.T, path string, names []string, contents map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(contents[name]))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
}

func digestOf(t *testing.T, content string) string {
	t.Helper()

	digest, err := HashReader(strings.NewReader(content))
	require.NoError(t, err)

	return digest
}

func TestVerify_AllMatch(t *testing.T) {
	job := buildFixture(t, map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "beta",
		"empty.bin": "",
	})
	require.NoError(t, Build(job))

	report, err := Verify(job)
	require.NoError(t, err)

	assert.True(t, report.OK())
	assert.Empty(t, report.Failures())
	assert.Empty(t, report.Extra)

	for _, result := range report.Results {
		assert.Equal(t, StatusMatch, result.Status, result.ArchivePath)
	}
}

func TestVerify_FullSweepReportsEveryMismatch(t *testing.T) {
	// Five entries; the archive holds different content for exactly two
	// of them. Every discrepancy must be reported, not just the first.
	names := []string{"e1.txt", "e2.txt", "e3.txt", "e4.txt", "e5.txt"}

	good := map[string]string{}
	for _, name := range names {
		good[name] = "content of " + name
	}

	stored := map[string]string{}
	for name, content := range good {
		stored[name] = content
	}
	stored["e2.txt"] = "corrupted"
	stored["e4.txt"] = "also corrupted"

	outputPath := filepath.Join(t.TempDir(), "out.zip")
	writeZip(t, outputPath, names, stored)

	job := &Job{OutputPath: outputPath}
	for _, name := range names {
		job.Records = append(job.Records, Record{ArchivePath: name, Digest: digestOf(t, good[name])})
	}

	report, err := Verify(job)
	require.NoError(t, err)

	assert.False(t, report.OK())

	statuses := map[string]Status{}
	for _, result := range report.Results {
		statuses[result.ArchivePath] = result.Status
	}

	assert.Equal(t, StatusMatch, statuses["e1.txt"])
	assert.Equal(t, StatusMismatch, statuses["e2.txt"])
	assert.Equal(t, StatusMatch, statuses["e3.txt"])
	assert.Equal(t, StatusMismatch, statuses["e4.txt"])
	assert.Equal(t, StatusMatch, statuses["e5.txt"])

	assert.Len(t, report.Failures(), 2)
}

func TestVerify_ResultsInEntryOrder(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 50; i++ {
		files[fmt.Sprintf("f%02d.txt", i)] = fmt.Sprintf("content %d", i)
	}

	job := buildFixture(t, files)
	require.NoError(t, Build(job))

	report, err := Verify(job)
	require.NoError(t, err)

	require.Len(t, report.Results, len(job.Records))
	for i, result := range report.Results {
		assert.Equal(t, job.Records[i].ArchivePath, result.ArchivePath)
	}
}

func TestVerify_MissingInArchive(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.zip")
	writeZip(t, outputPath, []string{"present.txt"}, map[string]string{"present.txt": "here"})

	job := &Job{
		OutputPath: outputPath,
		Records: []Record{
			{ArchivePath: "present.txt", Digest: digestOf(t, "here")},
			{ArchivePath: "gone.txt", Digest: digestOf(t, "never written")},
		},
	}

	report, err := Verify(job)
	require.NoError(t, err)

	assert.False(t, report.OK())
	assert.Equal(t, StatusMatch, report.Results[0].Status)
	assert.Equal(t, StatusMissing, report.Results[1].Status)
}

func TestVerify_ExtraEntryFailsJob(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.zip")
	writeZip(t, outputPath,
		[]string{"expected.txt", "stowaway.txt"},
		map[string]string{"expected.txt": "ok", "stowaway.txt": "??"})

	job := &Job{
		OutputPath: outputPath,
		Records:    []Record{{ArchivePath: "expected.txt", Digest: digestOf(t, "ok")}},
	}

	report, err := Verify(job)
	require.NoError(t, err)

	assert.False(t, report.OK())
	assert.Equal(t, []string{"stowaway.txt"}, report.Extra)
	assert.Equal(t, StatusMatch, report.Results[0].Status)
}

func TestVerify_ArchiveUnreadable(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.zip")
	require.NoError(t, os.WriteFile(outputPath, []byte("this is not a zip"), 0o644))

	job := &Job{
		OutputPath: outputPath,
		Records:    []Record{{ArchivePath: "a.txt", Digest: emptyDigest}},
	}

	_, err := Verify(job)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArchiveUnreadable)
}

func TestReport_OK(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   bool
	}{
		{"empty report", Report{}, true},
		{"all match", Report{Results: []Result{{Status: StatusMatch}}}, true},
		{"one mismatch", Report{Results: []Result{{Status: StatusMatch}, {Status: StatusMismatch}}}, false},
		{"one missing", Report{Results: []Result{{Status: StatusMissing}}}, false},
		{"one unreadable", Report{Results: []Result{{Status: StatusUnreadable}}}, false},
		{"extra entry", Report{Results: []Result{{Status: StatusMatch}}, Extra: []string{"x"}}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.report.OK())
		})
	}
}
