package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/daap14/quotator/internal/catalog"
	"github.com/daap14/quotator/internal/quote"
)

var errBoom = errors.New("disk I/O error")

// --- Request helpers ---

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := parseEnvelope(t, w)
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "response should carry an error object")
	return errObj["code"].(string)
}

// --- Catalog mock ---

type mockCatalogRepo struct {
	listFlavorsFn   func(ctx context.Context) ([]catalog.Flavor, error)
	findBestMatchFn func(ctx context.Context, minVCPUs int, minRAMGB float64) ([]catalog.Flavor, error)
	listDiskTypesFn func(ctx context.Context) ([]catalog.DiskType, error)
	pricingFn       func(ctx context.Context) (*catalog.Pricing, error)
}

func (m *mockCatalogRepo) ListFlavors(ctx context.Context) ([]catalog.Flavor, error) {
	if m.listFlavorsFn != nil {
		return m.listFlavorsFn(ctx)
	}
	return []catalog.Flavor{}, nil
}

func (m *mockCatalogRepo) FindBestMatch(ctx context.Context, minVCPUs int, minRAMGB float64) ([]catalog.Flavor, error) {
	if m.findBestMatchFn != nil {
		return m.findBestMatchFn(ctx, minVCPUs, minRAMGB)
	}
	return []catalog.Flavor{}, nil
}

func (m *mockCatalogRepo) ListDiskTypes(ctx context.Context) ([]catalog.DiskType, error) {
	if m.listDiskTypesFn != nil {
		return m.listDiskTypesFn(ctx)
	}
	return []catalog.DiskType{}, nil
}

func (m *mockCatalogRepo) Pricing(ctx context.Context) (*catalog.Pricing, error) {
	if m.pricingFn != nil {
		return m.pricingFn(ctx)
	}
	return &catalog.Pricing{Flavors: []catalog.Flavor{}, DiskTypes: []catalog.DiskType{}}, nil
}

// --- Quote mock ---

type mockQuoteRepo struct {
	listFn       func(ctx context.Context) ([]quote.Quote, error)
	listPageFn   func(ctx context.Context, filter quote.ListFilter) (*quote.ListResult, error)
	getFn        func(ctx context.Context, id uuid.UUID) (*quote.Quote, error)
	createFn     func(ctx context.Context, name string) (*quote.Quote, error)
	renameFn     func(ctx context.Context, id uuid.UUID, name string) error
	deleteFn     func(ctx context.Context, id uuid.UUID) error
	listItemsFn  func(ctx context.Context, quoteID uuid.UUID) ([]quote.Item, error)
	createItemFn func(ctx context.Context, quoteID uuid.UUID, fields quote.ItemFields) (*quote.Item, error)
	updateItemFn func(ctx context.Context, itemID uuid.UUID, fields quote.ItemFields) error
	deleteItemFn func(ctx context.Context, itemID uuid.UUID) error

	calls int
}

func (m *mockQuoteRepo) List(ctx context.Context) ([]quote.Quote, error) {
	m.calls++
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []quote.Quote{}, nil
}

func (m *mockQuoteRepo) ListPage(ctx context.Context, filter quote.ListFilter) (*quote.ListResult, error) {
	m.calls++
	if m.listPageFn != nil {
		return m.listPageFn(ctx, filter)
	}
	return &quote.ListResult{Quotes: []quote.Quote{}, Page: filter.Page, Limit: filter.Limit}, nil
}

func (m *mockQuoteRepo) Get(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	m.calls++
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, quote.ErrQuoteNotFound
}

func (m *mockQuoteRepo) Create(ctx context.Context, name string) (*quote.Quote, error) {
	m.calls++
	if m.createFn != nil {
		return m.createFn(ctx, name)
	}
	return nil, errors.New("not implemented")
}

func (m *mockQuoteRepo) Rename(ctx context.Context, id uuid.UUID, name string) error {
	m.calls++
	if m.renameFn != nil {
		return m.renameFn(ctx, id, name)
	}
	return nil
}

func (m *mockQuoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.calls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockQuoteRepo) ListItems(ctx context.Context, quoteID uuid.UUID) ([]quote.Item, error) {
	m.calls++
	if m.listItemsFn != nil {
		return m.listItemsFn(ctx, quoteID)
	}
	return []quote.Item{}, nil
}

func (m *mockQuoteRepo) CreateItem(ctx context.Context, quoteID uuid.UUID, fields quote.ItemFields) (*quote.Item, error) {
	m.calls++
	if m.createItemFn != nil {
		return m.createItemFn(ctx, quoteID, fields)
	}
	return nil, errors.New("not implemented")
}

func (m *mockQuoteRepo) UpdateItem(ctx context.Context, itemID uuid.UUID, fields quote.ItemFields) error {
	m.calls++
	if m.updateItemFn != nil {
		return m.updateItemFn(ctx, itemID, fields)
	}
	return nil
}

func (m *mockQuoteRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	m.calls++
	if m.deleteItemFn != nil {
		return m.deleteItemFn(ctx, itemID)
	}
	return nil
}
