package demoapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/logging"
)

func newTestServer(t *testing.T) (*httptest.Server, []catalog.Item) {
	t.Helper()
	products, err := Fixtures()
	require.NoError(t, err)
	srv := httptest.NewServer(Router(products, logging.Discard()))
	t.Cleanup(srv.Close)
	return srv, products
}

func TestFixtures_AreValidProducts(t *testing.T) {
	products, err := Fixtures()
	require.NoError(t, err)
	require.NotEmpty(t, products)

	seen := map[int]bool{}
	for _, p := range products {
		assert.Positive(t, p.ID)
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Title)
		assert.GreaterOrEqual(t, p.Price, 0.0)
		assert.NotEmpty(t, p.Category)
	}
}

func TestListProducts_Envelope(t *testing.T) {
	srv, products := newTestServer(t)

	resp, err := http.Get(srv.URL + "/products?limit=5&skip=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var page catalog.CatalogPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, len(products), page.Total)
	assert.Equal(t, 2, page.Skip)
	assert.Equal(t, 5, page.Limit)
	assert.Equal(t, products[2:7], page.Products)
}

func TestListProducts_LimitZeroReturnsAll(t *testing.T) {
	srv, products := newTestServer(t)

	resp, err := http.Get(srv.URL + "/products?limit=0")
	require.NoError(t, err)
	defer resp.Body.Close()

	var page catalog.CatalogPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Len(t, page.Products, len(products))
}

func TestListProducts_SkipPastEnd(t *testing.T) {
	srv, products := newTestServer(t)

	resp, err := http.Get(srv.URL + "/products?skip=1000")
	require.NoError(t, err)
	defer resp.Body.Close()

	var page catalog.CatalogPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Empty(t, page.Products)
	assert.NotNil(t, page.Products)
	assert.Equal(t, len(products), page.Skip)
}

func TestListProducts_BadLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/products?limit=lots")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetProduct(t *testing.T) {
	srv, products := newTestServer(t)

	cases := []struct {
		path   string
		status int
	}{
		{"/products/1", http.StatusOK},
		{"/products/9999", http.StatusNotFound},
		{"/products/abc", http.StatusNotFound},
		{"/nothing-here", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}

	resp, err := http.Get(srv.URL + "/products/1")
	require.NoError(t, err)
	defer resp.Body.Close()
	var item catalog.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	assert.Equal(t, products[0], item)
}

func TestRouter_ServesCatalogClient(t *testing.T) {
	srv, products := newTestServer(t)

	client, err := catalog.NewClient(srv.URL, catalog.WithLogger(logging.Discard()))
	require.NoError(t, err)

	items, err := client.FetchCatalog(context.Background(), catalog.DefaultLimit)
	require.NoError(t, err)
	assert.Equal(t, products, items)

	item, err := client.FetchItem(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, 3, item.ID)

	_, err = client.FetchItem(context.Background(), "4040")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, logging.Discard()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/products/1")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
