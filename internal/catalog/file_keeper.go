package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/drstein77/foodwizz/internal/models"
)

const recordFields = 5

// FileKeeper persists the catalog as a JSON array of
// [name, price, image_path, category, stock] records.
type FileKeeper struct {
	path string
}

func NewFileKeeper(path string) *FileKeeper {
	return &FileKeeper{path: path}
}

func (fk *FileKeeper) Path() string {
	return fk.path
}

// Load reads the catalog file. A missing file yields the defaults and no error;
// an unreadable or malformed file yields the defaults and a *LoadError.
func (fk *FileKeeper) Load() ([]models.Product, error) {
	data, err := os.ReadFile(fk.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return Defaults(), &LoadError{Path: fk.path, Err: err}
	}

	products, err := Decode(data)
	if err != nil {
		return Defaults(), &LoadError{Path: fk.path, Err: err}
	}
	return products, nil
}

// Save overwrites the catalog file with the full product list.
func (fk *FileKeeper) Save(products []models.Product) error {
	var buf bytes.Buffer
	if err := Encode(&buf, products); err != nil {
		return &PersistError{Path: fk.path, Err: err}
	}
	if err := os.WriteFile(fk.path, buf.Bytes(), 0o644); err != nil {
		return &PersistError{Path: fk.path, Err: err}
	}
	return nil
}

// Encode writes products in the catalog file format: indented UTF-8 JSON with
// non-ASCII and HTML characters left as is.
func Encode(w io.Writer, products []models.Product) error {
	records := make([][recordFields]any, 0, len(products))
	for _, p := range products {
		records = append(records, [recordFields]any{p.Name, p.Price, p.ImagePath, p.Category, p.Stock})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return nil
}

// Decode parses the catalog file format.
func Decode(data []byte) ([]models.Product, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if raw == nil {
		return nil, errors.New("catalog is not a JSON array")
	}

	products := make([]models.Product, 0, len(raw))
	for i, r := range raw {
		p, err := decodeRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func decodeRecord(data json.RawMessage) (models.Product, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return models.Product{}, fmt.Errorf("not an array: %w", err)
	}
	if len(fields) != recordFields {
		return models.Product{}, fmt.Errorf("expected %d fields, got %d", recordFields, len(fields))
	}

	var p models.Product
	targets := []struct {
		name string
		dst  any
	}{
		{"name", &p.Name},
		{"price", &p.Price},
		{"image_path", &p.ImagePath},
		{"category", &p.Category},
		{"stock", &p.Stock},
	}
	for i, t := range targets {
		if bytes.Equal(bytes.TrimSpace(fields[i]), []byte("null")) {
			return models.Product{}, fmt.Errorf("%s is null", t.name)
		}
		if err := json.Unmarshal(fields[i], t.dst); err != nil {
			return models.Product{}, fmt.Errorf("%s: %w", t.name, err)
		}
	}
	return p, nil
}
