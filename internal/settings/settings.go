// Package settings persists the operator's account and business preferences.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/drstein77/foodwizz/internal/catalog"
	"github.com/drstein77/foodwizz/internal/models"
	"go.uber.org/zap"
)

type Log interface {
	Info(string, ...zap.Field)
	Warn(string, ...zap.Field)
}

// Defaults returns the settings used when no file is present.
func Defaults() models.Settings {
	return models.Settings{
		Name:             "Administrador",
		Email:            "admin@foodwizz.com",
		BusinessName:     "FoodWizz Restaurant",
		Phone:            "+507 6007 8900",
		Address:          "123 Food Street, Culinary City",
		Theme:            "Claro",
		Notifications:    true,
		AutoBackup:       true,
		Language:         "Español",
		Currency:         "USD",
		TaxRate:          7.5,
		JoinDate:         "2024-01-01",
		TotalSales:       125000,
		TotalOrders:      1250,
		FavoriteCategory: catalog.CategoryRamen,
	}
}

// Validate reports the first invalid field as a *catalog.ValidationError.
func Validate(s models.Settings) error {
	if s.TaxRate < 0 || s.TaxRate > 100 {
		return &catalog.ValidationError{Field: "tax_rate", Reason: "must be between 0 and 100"}
	}
	if s.Email != "" && !strings.Contains(s.Email, "@") {
		return &catalog.ValidationError{Field: "email", Reason: "must contain @"}
	}
	if s.TotalOrders < 0 {
		return &catalog.ValidationError{Field: "total_orders", Reason: "must not be negative"}
	}
	return nil
}

// Store keeps the current settings and their file in sync.
type Store struct {
	mx      sync.RWMutex
	path    string
	current models.Settings
	log     Log
}

// NewStore loads path, falling back to Defaults when the file is missing,
// unreadable or holds invalid values.
func NewStore(path string, log Log) *Store {
	s := &Store{path: path, log: log, current: Defaults()}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s
	case err != nil:
		log.Warn("cannot read settings, using defaults", zap.String("path", path), zap.Error(err))
		return s
	}

	loaded := Defaults()
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Warn("cannot parse settings, using defaults", zap.String("path", path), zap.Error(err))
		return s
	}
	if err := Validate(loaded); err != nil {
		log.Warn("invalid settings, using defaults", zap.String("path", path), zap.Error(err))
		return s
	}
	s.current = loaded
	log.Info("settings loaded", zap.String("path", path))
	return s
}

func (s *Store) Get() models.Settings {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.current
}

// Update validates and persists next. The in-memory value is replaced even
// when the write fails; the write error is returned as a *catalog.PersistError.
func (s *Store) Update(next models.Settings) error {
	if err := Validate(next); err != nil {
		return err
	}

	s.mx.Lock()
	defer s.mx.Unlock()
	s.current = next

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(next); err != nil {
		return &catalog.PersistError{Path: s.path, Err: fmt.Errorf("failed to encode settings: %w", err)}
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return &catalog.PersistError{Path: s.path, Err: err}
	}
	return nil
}
