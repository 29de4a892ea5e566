package compress

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"
)

// NewZipReader unpacks the product CSV from a zip upload: the products.csv
// entry when present, the first CSV entry otherwise.
func NewZipReader(r io.ReadCloser) (io.ReadCloser, error) {
	data, err := readArchive(r)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid zip archive: %w", err)
	}

	var picked *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isCSV(f.Name) {
			continue
		}
		if isProductsEntry(f.Name) {
			picked = f
			break
		}
		if picked == nil {
			picked = f
		}
	}
	if picked == nil {
		return nil, ErrNoCSV
	}
	if picked.UncompressedSize64 > MaxEntrySize {
		return nil, ErrEntryTooLarge
	}

	rc, err := picked.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	entry, err := readEntry(rc)
	if err != nil {
		return nil, err
	}
	return entryReader{bytes.NewReader(entry)}, nil
}

// ZipWriter deflates everything written to it into a single entry.
type ZipWriter struct {
	archive *zip.Writer
	entry   io.Writer
}

func NewZipWriter(w io.Writer, fileName string) (*ZipWriter, error) {
	zw := zip.NewWriter(w)
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     fileName,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return &ZipWriter{archive: zw, entry: entry}, nil
}

func (z *ZipWriter) Write(p []byte) (int, error) {
	return z.entry.Write(p)
}

// Close writes the central directory; the underlying writer stays open.
func (z *ZipWriter) Close() error {
	return z.archive.Close()
}
