package catalog

import (
	"fmt"
	"iter"
	"slices"

	"github.com/drstein77/foodwizz/internal/models"
	"go.uber.org/zap"
)

// Keeper loads and saves the whole catalog.
type Keeper interface {
	Load() ([]models.Product, error)
	Save([]models.Product) error
}

type Log interface {
	Info(string, ...zap.Field)
	Warn(string, ...zap.Field)
}

// Store is the single owner of the catalog. It is not safe for concurrent use;
// callers sharing it across goroutines must serialize access.
type Store struct {
	keeper   Keeper
	policy   Policy
	log      Log
	products []models.Product
}

func NewStore(keeper Keeper, policy Policy, log Log) *Store {
	return &Store{
		keeper:   keeper,
		policy:   policy,
		log:      log,
		products: []models.Product{},
	}
}

// Load replaces the catalog with the keeper's contents. On a *LoadError the
// store still holds the fallback catalog the keeper returned.
func (s *Store) Load() error {
	products, err := s.keeper.Load()
	if products == nil {
		products = []models.Product{}
	}
	s.products = products
	if err != nil {
		s.log.Warn("catalog file unusable, using default products", zap.Error(err))
		return err
	}
	s.log.Info("catalog loaded", zap.Int("count", s.Len()))
	return nil
}

// Save writes the current catalog through the keeper.
func (s *Store) Save() error {
	if err := s.keeper.Save(s.products); err != nil {
		s.log.Warn("catalog not persisted, keeping in-memory state", zap.Error(err))
		return err
	}
	return nil
}

// Products returns a copy of the catalog in order.
func (s *Store) Products() []models.Product {
	return slices.Clone(s.products)
}

func (s *Store) Len() int {
	return len(s.products)
}

func (s *Store) Filter(name, category string) iter.Seq[models.Product] {
	return Filter(s.Products(), name, category)
}

func (s *Store) Search(text string) iter.Seq[models.Product] {
	return Search(s.Products(), text)
}

func (s *Store) FindByName(name string) int {
	return FindByName(s.products, name)
}

// Add validates p, rejects a case-insensitive duplicate name, appends and saves.
func (s *Store) Add(p models.Product) error {
	if err := s.checkNew(p); err != nil {
		return err
	}
	s.products = append(s.products, p)
	return s.Save()
}

// Update replaces the product named originalName in place and saves.
// Renaming is allowed unless the new name belongs to another product.
func (s *Store) Update(originalName string, p models.Product) error {
	idx := FindByName(s.products, originalName)
	if idx < 0 {
		return &NotFoundError{Name: originalName}
	}
	if err := s.policy.Validate(p); err != nil {
		return err
	}
	if other := FindByNameFold(s.products, p.Name); other >= 0 && other != idx {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("%q already exists", s.products[other].Name)}
	}
	s.products[idx] = p
	return s.Save()
}

// Remove deletes the first product named name. A miss is not an error.
func (s *Store) Remove(name string) error {
	if idx := FindByName(s.products, name); idx >= 0 {
		s.products = slices.Delete(s.products, idx, idx+1)
	}
	return s.Save()
}

// AddBatch appends every acceptable product in order and saves once.
// Rejected products are reported individually and do not stop the batch.
func (s *Store) AddBatch(products []models.Product) (added []models.Product, rejected []error, err error) {
	for _, p := range products {
		if cerr := s.checkNew(p); cerr != nil {
			rejected = append(rejected, fmt.Errorf("%q: %w", p.Name, cerr))
			continue
		}
		s.products = append(s.products, p)
		added = append(added, p)
	}
	if len(added) == 0 {
		return nil, rejected, nil
	}
	return added, rejected, s.Save()
}

// Replace swaps the in-memory catalog without saving.
func (s *Store) Replace(products []models.Product) {
	s.products = slices.Clone(products)
	if s.products == nil {
		s.products = []models.Product{}
	}
}

func (s *Store) checkNew(p models.Product) error {
	if err := s.policy.Validate(p); err != nil {
		return err
	}
	if idx := FindByNameFold(s.products, p.Name); idx >= 0 {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("%q already exists", s.products[idx].Name)}
	}
	return nil
}
