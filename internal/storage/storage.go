// Package storage shares the catalog store between the HTTP handlers and the
// background jobs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/drstein77/foodwizz/internal/catalog"
	"github.com/drstein77/foodwizz/internal/csvio"
	"github.com/drstein77/foodwizz/internal/models"
	"github.com/drstein77/foodwizz/internal/report"
	"go.uber.org/zap"
)

type Log interface {
	Info(string, ...zap.Field)
	Warn(string, ...zap.Field)
}

// Keeper mirrors the catalog to an external database.
type Keeper interface {
	SyncProducts(context.Context, []models.Product) error
	GetAllProducts(context.Context) ([]models.Product, error)
	Ping(context.Context) bool
	Close() bool
}

// MemoryStorage guards a catalog.Store with a read-write lock.
type MemoryStorage struct {
	mx sync.RWMutex
	// gen counts catalog changes; guarded by mx.
	gen uint64

	// syncMx orders mirror writes; synced is the last generation sent.
	syncMx sync.Mutex
	synced uint64

	store    *catalog.Store
	file     catalog.Keeper
	keeper   Keeper
	lowStock int
	log      Log
}

// NewMemoryStorage loads the catalog through file. A *catalog.LoadError is
// logged and the defaults are served. keeper may be nil.
func NewMemoryStorage(ctx context.Context, file catalog.Keeper, policy catalog.Policy, keeper Keeper, lowStock int, log Log) *MemoryStorage {
	ms := &MemoryStorage{
		store:    catalog.NewStore(file, policy, log),
		file:     file,
		keeper:   keeper,
		lowStock: lowStock,
		log:      log,
	}

	// a *catalog.LoadError is logged by the store, which serves the defaults
	_ = ms.store.Load()
	ms.gen = 1
	ms.mirror(ctx, ms.store.Products(), ms.gen)

	return ms
}

func (ms *MemoryStorage) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	ms.mx.RLock()
	defer ms.mx.RUnlock()
	return ms.store.Products(), nil
}

// GetProducts filters by name substring and category (catalog.AllCategories for any).
func (ms *MemoryStorage) GetProducts(ctx context.Context, name, category string) ([]models.Product, error) {
	ms.mx.RLock()
	defer ms.mx.RUnlock()
	return nonNil(slices.Collect(ms.store.Filter(name, category))), nil
}

// SearchInventory matches text against names and categories.
func (ms *MemoryStorage) SearchInventory(ctx context.Context, text string) ([]models.Product, error) {
	ms.mx.RLock()
	defer ms.mx.RUnlock()
	return nonNil(slices.Collect(ms.store.Search(text))), nil
}

func (ms *MemoryStorage) AddProduct(ctx context.Context, p models.Product) error {
	return ms.mutate(ctx, func(s *catalog.Store) error { return s.Add(p) })
}

func (ms *MemoryStorage) UpdateProduct(ctx context.Context, originalName string, p models.Product) error {
	return ms.mutate(ctx, func(s *catalog.Store) error { return s.Update(originalName, p) })
}

func (ms *MemoryStorage) RemoveProduct(ctx context.Context, name string) error {
	return ms.mutate(ctx, func(s *catalog.Store) error { return s.Remove(name) })
}

// ImportProducts adds every acceptable CSV row and reports what was taken.
func (ms *MemoryStorage) ImportProducts(ctx context.Context, r io.Reader) (*models.ProcessResponse, error) {
	products, err := csvio.ReadProducts(r)
	if err != nil {
		return nil, err
	}

	var (
		added    []models.Product
		rejected []error
	)
	err = ms.mutate(ctx, func(s *catalog.Store) error {
		var batchErr error
		added, rejected, batchErr = s.AddBatch(products)
		return batchErr
	})
	for _, rerr := range rejected {
		ms.log.Info("import row skipped", zap.Error(rerr))
	}

	summary := report.Summarize(added, ms.lowStock)
	total, _ := summary.InventoryValue.Float64()
	resp := &models.ProcessResponse{
		TotalItems:      len(added),
		SkippedItems:    len(rejected),
		TotalCategories: len(summary.Categories),
		TotalPrice:      total,
	}
	return resp, err
}

// ExportProducts writes the catalog as CSV.
func (ms *MemoryStorage) ExportProducts(ctx context.Context, w io.Writer) error {
	products, _ := ms.GetAllProducts(ctx)
	return csvio.WriteProducts(w, products)
}

// Snapshot writes the catalog in its file format.
func (ms *MemoryStorage) Snapshot(ctx context.Context, w io.Writer) error {
	products, _ := ms.GetAllProducts(ctx)
	return catalog.Encode(w, products)
}

func (ms *MemoryStorage) Summary(ctx context.Context) (models.Summary, error) {
	products, _ := ms.GetAllProducts(ctx)
	return report.Summarize(products, ms.lowStock), nil
}

// Reload re-reads the catalog file. It reports whether the catalog changed.
// An unusable file leaves the current catalog in place, and so does a read
// that raced with a mutation: the in-memory catalog is newer than that file.
func (ms *MemoryStorage) Reload(ctx context.Context) (bool, error) {
	ms.mx.RLock()
	start := ms.gen
	ms.mx.RUnlock()

	products, err := ms.file.Load()
	if err != nil {
		return false, err
	}

	ms.mx.Lock()
	if ms.gen != start {
		ms.mx.Unlock()
		ms.log.Info("catalog changed during reload, keeping in-memory catalog")
		return false, nil
	}
	if slices.Equal(products, ms.store.Products()) {
		ms.mx.Unlock()
		return false, nil
	}
	ms.store.Replace(products)
	ms.gen++
	gen := ms.gen
	ms.mx.Unlock()

	ms.log.Info("catalog reloaded from file", zap.Int("count", len(products)))
	ms.mirror(ctx, products, gen)
	return true, nil
}

// MirrorStatus compares the mirrored catalog with the in-memory one.
func (ms *MemoryStorage) MirrorStatus(ctx context.Context) (models.MirrorStatus, error) {
	products, _ := ms.GetAllProducts(ctx)
	status := models.MirrorStatus{Catalog: len(products)}
	if ms.keeper == nil {
		return status, nil
	}

	status.Enabled = true
	mirrored, err := ms.keeper.GetAllProducts(ctx)
	if err != nil {
		return status, fmt.Errorf("failed to read mirror: %w", err)
	}
	status.Mirrored = len(mirrored)
	status.InSync = slices.Equal(products, mirrored)
	return status, nil
}

// Ping reports the mirror database health; true when no mirror is configured.
func (ms *MemoryStorage) Ping(ctx context.Context) bool {
	if ms.keeper == nil {
		return true
	}
	return ms.keeper.Ping(ctx)
}

func (ms *MemoryStorage) Close() {
	if ms.keeper != nil {
		ms.keeper.Close()
	}
}

// mutate applies fn under the write lock and mirrors the result whenever the
// in-memory catalog may have changed, including after a persist failure.
func (ms *MemoryStorage) mutate(ctx context.Context, fn func(*catalog.Store) error) error {
	ms.mx.Lock()
	err := fn(ms.store)
	var perr *catalog.PersistError
	changed := err == nil || errors.As(err, &perr)
	if changed {
		ms.gen++
	}
	gen := ms.gen
	products := ms.store.Products()
	ms.mx.Unlock()

	if changed {
		ms.mirror(ctx, products, gen)
	}
	return err
}

// mirror syncs the snapshot taken at generation gen. Writes are serialized
// and a snapshot older than the last mirrored one is dropped.
func (ms *MemoryStorage) mirror(ctx context.Context, products []models.Product, gen uint64) {
	if ms.keeper == nil {
		return
	}

	ms.syncMx.Lock()
	defer ms.syncMx.Unlock()
	if gen <= ms.synced {
		return
	}
	ms.synced = gen
	if err := ms.keeper.SyncProducts(ctx, products); err != nil {
		ms.log.Warn("catalog mirror failed", zap.Error(fmt.Errorf("sync %d products: %w", len(products), err)))
	}
}

func nonNil(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
