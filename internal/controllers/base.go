package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/drstein77/foodwizz/internal/catalog"
	"github.com/drstein77/foodwizz/internal/middleware"
	"github.com/drstein77/foodwizz/internal/models"
	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
)

// Storage interface for catalog operations
type Storage interface {
	GetProducts(ctx context.Context, name, category string) ([]models.Product, error)
	SearchInventory(ctx context.Context, text string) ([]models.Product, error)
	AddProduct(ctx context.Context, p models.Product) error
	UpdateProduct(ctx context.Context, originalName string, p models.Product) error
	RemoveProduct(ctx context.Context, name string) error
	ImportProducts(ctx context.Context, r io.Reader) (*models.ProcessResponse, error)
	ExportProducts(ctx context.Context, w io.Writer) error
	Summary(ctx context.Context) (models.Summary, error)
	MirrorStatus(ctx context.Context) (models.MirrorStatus, error)
	Ping(ctx context.Context) bool
}

// Settings interface for account preferences
type Settings interface {
	Get() models.Settings
	Update(models.Settings) error
}

// Backup interface for on-demand catalog backups
type Backup interface {
	RunOnce(ctx context.Context) (string, error)
}

// Log interface for logging
type Log interface {
	Info(string, ...zap.Field)
	Warn(string, ...zap.Field)
}

// BaseController struct for handling requests
type BaseController struct {
	storage  Storage
	settings Settings
	backup   Backup
	log      Log
}

// NewBaseController creates a new BaseController instance. backup may be nil.
func NewBaseController(storage Storage, settings Settings, backup Backup, log Log) *BaseController {
	return &BaseController{
		storage:  storage,
		settings: settings,
		backup:   backup,
		log:      log,
	}
}

// Route sets up the routes for the BaseController
func (h *BaseController) Route() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(h.log))

	r.Get("/ping", h.ping)

	r.Route("/api/v0", func(r chi.Router) {
		r.Get("/products", h.getProducts)
		r.Post("/products", h.postProduct)
		r.Put("/products/{name}", h.putProduct)
		r.Delete("/products/{name}", h.deleteProduct)

		r.Group(func(r chi.Router) {
			r.Use(middleware.ArchiveTypeMiddleware("products.csv"))
			r.Post("/products/import", h.importProducts)
			r.Get("/products/export", h.exportProducts)
		})

		r.Get("/inventory", h.getInventory)
		r.Get("/reports/summary", h.getSummary)
		r.Get("/reports/mirror", h.getMirrorStatus)

		r.Get("/account", h.getAccount)
		r.Put("/account", h.putAccount)

		r.Post("/backups", h.postBackup)
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (h *BaseController) ping(w http.ResponseWriter, r *http.Request) {
	if !h.storage.Ping(r.Context()) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "catalog mirror unavailable"})
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *BaseController) getProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.storage.GetProducts(r.Context(), q.Get("name"), q.Get("category"))
	if err != nil {
		h.writeError(w, fmt.Errorf("failed to filter products: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *BaseController) getInventory(w http.ResponseWriter, r *http.Request) {
	products, err := h.storage.SearchInventory(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, fmt.Errorf("failed to search inventory: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *BaseController) postProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeJSON(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.storage.AddProduct(r.Context(), p); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *BaseController) putProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeJSON(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	name, err := nameParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.storage.UpdateProduct(r.Context(), name, p); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *BaseController) deleteProduct(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.storage.RemoveProduct(r.Context(), name); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BaseController) importProducts(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	h.log.Info("importing products", zap.String("archive_type", middleware.ArchiveType(r.Context())))

	response, err := h.storage.ImportProducts(r.Context(), r.Body)
	if err != nil && response == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("Failed to process products: %v", err)})
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *BaseController) exportProducts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := h.storage.ExportProducts(r.Context(), w); err != nil {
		h.log.Warn("export interrupted", zap.Error(err))
	}
}

func (h *BaseController) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.storage.Summary(r.Context())
	if err != nil {
		h.writeError(w, fmt.Errorf("failed to build summary: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *BaseController) getMirrorStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.storage.MirrorStatus(r.Context())
	if err != nil {
		h.log.Warn("mirror status unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *BaseController) getAccount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Get())
}

func (h *BaseController) putAccount(w http.ResponseWriter, r *http.Request) {
	next := h.settings.Get()
	if err := decodeJSON(r, &next); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.settings.Update(next); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (h *BaseController) postBackup(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "backups are disabled"})
		return
	}

	path, err := h.backup.RunOnce(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

// writeError maps catalog errors onto HTTP statuses.
func (h *BaseController) writeError(w http.ResponseWriter, err error) {
	var (
		verr *catalog.ValidationError
		nerr *catalog.NotFoundError
		perr *catalog.PersistError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.As(err, &nerr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: nerr.Error()})
	case errors.As(err, &perr):
		h.log.Warn("change kept in memory but not saved", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: perr.Error()})
	default:
		h.log.Warn("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// nameParam returns the product name from the path. chi matches on the raw
// path when the request carries escapes such as %2F, leaving them in the param.
func nameParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	unescaped, err := url.PathUnescape(name)
	if err != nil {
		return "", fmt.Errorf("invalid product name %q: %w", name, err)
	}
	return unescaped, nil
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
