// Package compress moves the product CSV in and out of zip and tar archives.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ProductsEntry is the entry name written by the catalog export. Readers
// prefer it over any other CSV entry in an uploaded archive.
const ProductsEntry = "products.csv"

const (
	csvExt = ".csv"

	// MaxArchiveSize bounds the uploaded archive held in memory.
	MaxArchiveSize = 64 << 20
	// MaxEntrySize bounds the unpacked CSV entry.
	MaxEntrySize = 32 << 20
)

var (
	ErrNoCSV           = errors.New("no CSV entry in archive")
	ErrArchiveTooLarge = fmt.Errorf("archive exceeds %d bytes", MaxArchiveSize)
	ErrEntryTooLarge   = fmt.Errorf("CSV entry exceeds %d bytes", MaxEntrySize)
)

// NewWriter returns an archive writer for archiveType ("zip" or "tar")
// holding a single entry named fileName.
func NewWriter(archiveType string, w io.Writer, fileName string) (io.WriteCloser, error) {
	switch archiveType {
	case "zip":
		return NewZipWriter(w, fileName)
	case "tar":
		return NewTarWriter(w, fileName), nil
	default:
		return nil, errors.New("unsupported archive type " + archiveType)
	}
}

// NewReader returns a reader over the product CSV of an archive of archiveType.
func NewReader(archiveType string, r io.ReadCloser) (io.ReadCloser, error) {
	switch archiveType {
	case "zip":
		return NewZipReader(r)
	case "tar":
		return NewTarReader(r)
	default:
		r.Close()
		return nil, errors.New("unsupported archive type " + archiveType)
	}
}

// entryReader serves an unpacked CSV entry from memory.
type entryReader struct {
	*bytes.Reader
}

func (entryReader) Close() error { return nil }

func isCSV(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), csvExt)
}

func isProductsEntry(name string) bool {
	return strings.EqualFold(path.Base(name), ProductsEntry)
}

// readArchive buffers the whole upload, failing once it passes MaxArchiveSize.
func readArchive(r io.ReadCloser) ([]byte, error) {
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, MaxArchiveSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxArchiveSize {
		return nil, ErrArchiveTooLarge
	}
	return data, nil
}

// readEntry unpacks one entry, failing once it passes MaxEntrySize.
// Declared sizes are not trusted.
func readEntry(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxEntrySize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxEntrySize {
		return nil, ErrEntryTooLarge
	}
	return data, nil
}
