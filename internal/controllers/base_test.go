package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drstein77/foodwizz/internal/backup"
	"github.com/drstein77/foodwizz/internal/catalog"
	"github.com/drstein77/foodwizz/internal/compress"
	"github.com/drstein77/foodwizz/internal/models"
	"github.com/drstein77/foodwizz/internal/settings"
	"github.com/drstein77/foodwizz/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	*httptest.Server
	dir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	log := zap.NewNop()

	ms := storage.NewMemoryStorage(context.Background(), catalog.NewFileKeeper(filepath.Join(dir, "productos.json")), catalog.Policy{}, nil, 10, log)
	st := settings.NewStore(filepath.Join(dir, "user_data.json"), log)
	bk := backup.NewScheduler(filepath.Join(dir, "backups"), ms, log)

	srv := httptest.NewServer(NewBaseController(ms, st, bk, log).Route())
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, dir: dir}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, s.URL+path, rd)
	require.NoError(t, err)
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestProductsLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodGet, "/api/v0/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.Product](t, resp), 20)

	iceCream := models.Product{Name: "Ice Cream", Price: 8, ImagePath: "img/x.jpg", Category: "Drink", Stock: 10}
	resp = srv.do(t, http.MethodPost, "/api/v0/products", iceCream)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = srv.do(t, http.MethodGet, "/api/v0/products?name=ice+cream&category=Drink", nil)
	found := decode[[]models.Product](t, resp)
	require.Len(t, found, 2)
	assert.Equal(t, "Matcha Ice Cream", found[0].Name)
	assert.Equal(t, iceCream, found[1])

	updated := iceCream
	updated.Stock = 4
	resp = srv.do(t, http.MethodPut, "/api/v0/products/Ice%20Cream", updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = srv.do(t, http.MethodGet, "/api/v0/inventory?q=ice%20cream", nil)
	inventory := decode[[]models.Product](t, resp)
	require.Len(t, inventory, 2)
	assert.Equal(t, 4, inventory[1].Stock)

	resp = srv.do(t, http.MethodDelete, "/api/v0/products/Ice%20Cream", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = srv.do(t, http.MethodDelete, "/api/v0/products/Ice%20Cream", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = srv.do(t, http.MethodGet, "/api/v0/products", nil)
	assert.Equal(t, catalog.Defaults(), decode[[]models.Product](t, resp))
}

func TestProductErrors(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodPost, "/api/v0/products", models.Product{Name: "X", Price: -1, Category: "Y", Stock: 1})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "price", decode[errorResponse](t, resp).Field)

	resp = srv.do(t, http.MethodPost, "/api/v0/products", models.Product{Name: "green tea", Price: 1, Category: "Drink", Stock: 1})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "name", decode[errorResponse](t, resp).Field)

	resp = srv.do(t, http.MethodPut, "/api/v0/products/Sake", models.Product{Name: "Sake", Price: 1, Category: "Drink", Stock: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = srv.do(t, http.MethodPost, "/api/v0/products", map[string]any{"name": "X", "colour": "red"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportAndExport(t *testing.T) {
	srv := newTestServer(t)

	var archive bytes.Buffer
	aw, err := compress.NewWriter("tar", &archive, "new.csv")
	require.NoError(t, err)
	_, _ = io.WriteString(aw, "name,price,image_path,category,stock\nRamune,3.5,img/ramune.jpg,Drink,12\nGreen Tea,4.5,img/green_tea.jpg,Drink,9\n")
	require.NoError(t, aw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v0/products/import?archiveType=tar", &archive)
	require.NoError(t, err)
	req.Header.Set("Content-Encoding", "tar")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.ProcessResponse{TotalItems: 1, SkippedItems: 1, TotalCategories: 1, TotalPrice: 42}, decode[models.ProcessResponse](t, resp))

	resp = srv.do(t, http.MethodPost, "/api/v0/products/import", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/v0/products/export?archiveType=zip", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "zip")
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))

	r, err := compress.NewReader("zip", resp.Body)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, 22, strings.Count(string(data), "\n"))
	assert.Contains(t, string(data), "Ramune,3.5,img/ramune.jpg,Drink,12")
}

func TestSummaryAccountAndBackup(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodGet, "/api/v0/reports/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[models.Summary](t, resp)
	assert.Equal(t, 20, summary.TotalProducts)
	assert.Equal(t, "2402.25", summary.InventoryValue.StringFixed(2))

	resp = srv.do(t, http.MethodGet, "/api/v0/account", nil)
	assert.Equal(t, settings.Defaults(), decode[models.Settings](t, resp))

	resp = srv.do(t, http.MethodPut, "/api/v0/account", map[string]any{"theme": "Oscuro"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Oscuro", decode[models.Settings](t, resp).Theme)

	resp = srv.do(t, http.MethodPut, "/api/v0/account", map[string]any{"tax_rate": 101})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = srv.do(t, http.MethodPost, "/api/v0/backups", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	path := decode[map[string]string](t, resp)["path"]
	assert.Equal(t, filepath.Join(srv.dir, "backups"), filepath.Dir(path))

	resp = srv.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProductNamesWithReservedCharacters(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct {
		name string
		path string
	}{
		{name: "Salt/Pepper", path: "Salt%2FPepper"},
		{name: "100% Juice", path: "100%25%20Juice"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := models.Product{Name: tc.name, Price: 2, ImagePath: "img/x.jpg", Category: "Other", Stock: 5}
			resp := srv.do(t, http.MethodPost, "/api/v0/products", p)
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			p.Stock = 1
			resp = srv.do(t, http.MethodPut, "/api/v0/products/"+tc.path, p)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			resp = srv.do(t, http.MethodGet, "/api/v0/inventory?q="+url.QueryEscape(tc.name), nil)
			found := decode[[]models.Product](t, resp)
			require.Len(t, found, 1)
			assert.Equal(t, 1, found[0].Stock)

			resp = srv.do(t, http.MethodDelete, "/api/v0/products/"+tc.path, nil)
			require.Equal(t, http.StatusNoContent, resp.StatusCode)

			resp = srv.do(t, http.MethodGet, "/api/v0/inventory?q="+url.QueryEscape(tc.name), nil)
			assert.Empty(t, decode[[]models.Product](t, resp))
		})
	}
}

func TestMirrorStatusWithoutDatabase(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodGet, "/api/v0/reports/mirror", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.MirrorStatus{Catalog: 20}, decode[models.MirrorStatus](t, resp))
}
