package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restaurant-pos/internal/admin/app/core"
	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/menuapi"
	"restaurant-pos/internal/xpkg/models"
	"restaurant-pos/internal/xpkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, menu http.HandlerFunc) *httptest.Server {
	t.Helper()
	menuSrv := httptest.NewServer(menu)
	t.Cleanup(menuSrv.Close)

	cfg := config.Default()
	cfg.MenuAPI.BaseURL = menuSrv.URL

	s := NewServer(context.Background(), context.Background(), cfg, &core.AdminParams{Port: 3001}, logger.Nop())
	s.Configure(storage.NewMemory())

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestProductRoutes(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pagination": {"bbqs": 2}}`)
	})

	resp := do(t, http.MethodPost, srv.URL+"/products", `{"name":"Adobo","price":150,"category":"mains"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)

	resp = do(t, http.MethodPost, srv.URL+"/products", `{"name":"","price":150}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/products", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/products/"+created.ID, `{"name":"Chicken Adobo","price":160,"category":"mains"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/products/missing", `{"name":"X","price":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/products", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, "Chicken Adobo", products[0].Name)

	resp = do(t, http.MethodDelete, srv.URL+"/products/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodDelete, srv.URL+"/products/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCategoriesRoute(t *testing.T) {
	t.Run("directory", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"pagination": {"best-foods": 1, "fried-chicken": 4}}`)
		})
		resp := do(t, http.MethodGet, srv.URL+"/categories", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var cats []menuapi.Category
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&cats))
		assert.Equal(t, []menuapi.Category{{Key: "fried-chicken", Name: "fried chicken", Count: 4}}, cats)
	})

	t.Run("menu api down", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		resp := do(t, http.MethodGet, srv.URL+"/categories", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var cats []menuapi.Category
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&cats))
		assert.Empty(t, cats)
	})
}
