package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"
)

// blockSize bounds memory use when hashing arbitrarily large files
const blockSize = 64 * 1024

// Digester computes the content digest this tool compares between the
// source and archive sides. Both passes must go through here so the
// algorithm and encoding stay identical.
type Digester struct {
	h hash.Hash
}

// NewDigester creates a SHA-256 digester
func NewDigester() *Digester {
	return &Digester{h: sha256.New()}
}

func (d *Digester) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Sum returns the lowercase hex digest of everything written so far
func (d *Digester) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// HashReader streams r through a Digester and returns the lowercase hex
// digest. On a read error the digest of the bytes consumed so far is
// returned alongside the error, so callers can still compare partial
// streams when the error is tolerable (e.g. a zip CRC failure at EOF).
func HashReader(r io.Reader) (string, error) {
	d := NewDigester()

	buf := make([]byte, blockSize)
	_, err := io.CopyBuffer(d, r, buf)

	return d.Sum(), err
}

// HashFile returns the SHA-256 hex digest of a file's content
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return HashReader(f)
}
