package compress

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"time"
)

// NewTarReader unpacks the product CSV from a tar upload: the products.csv
// entry when present, the first CSV entry otherwise.
func NewTarReader(r io.ReadCloser) (io.ReadCloser, error) {
	data, err := readArchive(r)
	if err != nil {
		return nil, err
	}

	var first []byte
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid tar archive: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !isCSV(header.Name) {
			continue
		}
		if !isProductsEntry(header.Name) && first != nil {
			continue
		}

		entry, err := readEntry(tr)
		if err != nil {
			return nil, err
		}
		if isProductsEntry(header.Name) {
			return entryReader{bytes.NewReader(entry)}, nil
		}
		first = entry
	}

	if first == nil {
		return nil, ErrNoCSV
	}
	return entryReader{bytes.NewReader(first)}, nil
}

// TarWriter packs everything written to it into a single tar entry.
// The entry is emitted on Close since the header needs the final size.
type TarWriter struct {
	w        io.Writer
	fileName string
	buf      bytes.Buffer
}

func NewTarWriter(w io.Writer, fileName string) *TarWriter {
	return &TarWriter{w: w, fileName: fileName}
}

func (t *TarWriter) Write(p []byte) (int, error) {
	return t.buf.Write(p)
}

// Close writes the entry and the archive trailer.
func (t *TarWriter) Close() error {
	tw := tar.NewWriter(t.w)
	header := &tar.Header{
		Name:     t.fileName,
		Mode:     0o644,
		Size:     int64(t.buf.Len()),
		ModTime:  time.Now(),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	if _, err := tw.Write(t.buf.Bytes()); err != nil {
		return err
	}
	return tw.Close()
}
