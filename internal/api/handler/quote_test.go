package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/quotator/internal/api/handler"
	"github.com/daap14/quotator/internal/quote"
	"github.com/daap14/quotator/internal/store"
)

func sampleQuote(id uuid.UUID, name string) *quote.Quote {
	now := store.NewTimestamp(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	return &quote.Quote{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
}

// ===== GET /quotes =====

func TestQuoteList_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockQuoteRepo{
		listFn: func(_ context.Context) ([]quote.Quote, error) {
			return []quote.Quote{*sampleQuote(id, "Web tier")}, nil
		},
	}
	h := handler.NewQuoteHandler(repo)

	req, w := makeChiRequest(http.MethodGet, "/quotes", nil, nil)
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	q := data[0].(map[string]interface{})
	assert.Equal(t, id.String(), q["id"])
	assert.Equal(t, "Web tier", q["name"])
	assert.Equal(t, "2026-03-01T09:00:00.000000Z", q["created_at"])
	assert.Equal(t, q["created_at"], q["updated_at"])
}

func TestQuoteList_StoreError(t *testing.T) {
	t.Parallel()

	repo := &mockQuoteRepo{
		listFn: func(_ context.Context) ([]quote.Quote, error) { return nil, errBoom },
	}
	h := handler.NewQuoteHandler(repo)

	req, w := makeChiRequest(http.MethodGet, "/quotes", nil, nil)
	h.List(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, w))
}

// ===== GET /quotes/paginated =====

func TestQuoteListPaginated_Defaults(t *testing.T) {
	t.Parallel()

	var got quote.ListFilter
	repo := &mockQuoteRepo{
		listPageFn: func(_ context.Context, filter quote.ListFilter) (*quote.ListResult, error) {
			got = filter
			return &quote.ListResult{Quotes: []quote.Quote{}, Total: 0, Page: 1, Limit: 20, TotalPages: 0}, nil
		},
	}
	h := handler.NewQuoteHandler(repo)

	req, w := makeChiRequest(http.MethodGet, "/quotes/paginated", nil, nil)
	h.ListPaginated(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, quote.ListFilter{SortBy: "updated_at", SortOrder: "desc", Page: 1, Limit: 20}, got)
}

func TestQuoteListPaginated_Meta(t *testing.T) {
	t.Parallel()

	var got quote.ListFilter
	repo := &mockQuoteRepo{
		listPageFn: func(_ context.Context, filter quote.ListFilter) (*quote.ListResult, error) {
			got = filter
			quotes := make([]quote.Quote, 0, 5)
			for i := 0; i < 5; i++ {
				quotes = append(quotes, *sampleQuote(uuid.New(), "q"))
			}
			return &quote.ListResult{Quotes: quotes, Total: 12, Page: 2, Limit: 5, TotalPages: 3}, nil
		},
	}
	h := handler.NewQuoteHandler(repo)

	req, w := makeChiRequest(http.MethodGet, "/quotes/paginated?page=2&limit=5&sort_by=NAME&sort_order=asc&search=web", nil, nil)
	h.ListPaginated(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, quote.ListFilter{Search: "web", SortBy: "name", SortOrder: "asc", Page: 2, Limit: 5}, got)

	env := parseEnvelope(t, w)
	assert.Len(t, env["data"], 5)
	meta := env["meta"].(map[string]interface{})
	assert.EqualValues(t, 12, meta["total"])
	assert.EqualValues(t, 2, meta["page"])
	assert.EqualValues(t, 5, meta["limit"])
	assert.EqualValues(t, 3, meta["total_pages"])
}

func TestQuoteListPaginated_InvalidParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
	}{
		{name: "page not a number", query: "page=two"},
		{name: "page zero", query: "page=0"},
		{name: "limit zero", query: "limit=0"},
		{name: "limit too large", query: "limit=101"},
		{name: "unknown sort field", query: "sort_by=id"},
		{name: "unknown sort order", query: "sort_order=random"},
		{name: "page offset overflows", query: "page=9223372036854775807&limit=5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockQuoteRepo{}
			h := handler.NewQuoteHandler(repo)

			req, w := makeChiRequest(http.MethodGet, "/quotes/paginated?"+tt.query, nil, nil)
			h.ListPaginated(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_PARAM", errorCode(t, w))
			assert.Zero(t, repo.calls)
		})
	}
}

// ===== POST /quotes =====

func TestQuoteCreate_Success(t *testing.T) {
	t.Parallel()

	var gotName string
	repo := &mockQuoteRepo{
		createFn: func(_ context.Context, name string) (*quote.Quote, error) {
			gotName = name
			return sampleQuote(uuid.New(), name), nil
		},
	}
	h := handler.NewQuoteHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"name": "  Web tier  "})
	req, w := makeChiRequest(http.MethodPost, "/quotes", body, nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Web tier", gotName)

	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Web tier", data["name"])
	assert.NotEmpty(t, data["id"])
}

func TestQuoteCreate_ValidationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{name: "missing name", body: map[string]interface{}{}},
		{name: "blank name", body: map[string]interface{}{"name": "   "}},
		{name: "name too long", body: map[string]interface{}{"name": strings.Repeat("q", 201)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockQuoteRepo{}
			h := handler.NewQuoteHandler(repo)

			body, _ := json.Marshal(tt.body)
			req, w := makeChiRequest(http.MethodPost, "/quotes", body, nil)
			h.Create(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			env := parseEnvelope(t, w)
			errObj := env["error"].(map[string]interface{})
			assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
			details := errObj["details"].([]interface{})
			require.Len(t, details, 1)
			assert.Equal(t, "name", details[0].(map[string]interface{})["field"])
			assert.Zero(t, repo.calls)
		})
	}
}

func TestQuoteCreate_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := handler.NewQuoteHandler(&mockQuoteRepo{})

	req, w := makeChiRequest(http.MethodPost, "/quotes", []byte(`{"name":`), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", errorCode(t, w))
}

func TestQuoteCreate_TrailingData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "garbage", body: `{"name":"a"} junk`},
		{name: "second object", body: `{"name":"a"}{"name":"b"}`},
		{name: "stray brace", body: `{"name":"a"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockQuoteRepo{}
			h := handler.NewQuoteHandler(repo)

			req, w := makeChiRequest(http.MethodPost, "/quotes", []byte(tt.body), nil)
			h.Create(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_JSON", errorCode(t, w))
			assert.Zero(t, repo.calls)
		})
	}
}

func TestQuoteCreate_TrailingWhitespaceAccepted(t *testing.T) {
	t.Parallel()

	repo := &mockQuoteRepo{
		createFn: func(_ context.Context, name string) (*quote.Quote, error) {
			return sampleQuote(uuid.New(), name), nil
		},
	}
	h := handler.NewQuoteHandler(repo)

	req, w := makeChiRequest(http.MethodPost, "/quotes", []byte("{\"name\":\"a\"}\n\t "), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestQuoteCreate_BodyTooLarge(t *testing.T) {
	t.Parallel()

	h := handler.NewQuoteHandler(&mockQuoteRepo{})

	body := []byte(`{"name":"` + strings.Repeat("x", 2<<20) + `"}`)
	req, w := makeChiRequest(http.MethodPost, "/quotes", body, nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", errorCode(t, w))
}

func TestQuoteCreate_StoreError(t *testing.T) {
	t.Parallel()

	repo := &mockQuoteRepo{
		createFn: func(_ context.Context, _ string) (*quote.Quote, error) { return nil, errBoom },
	}
	h := handler.NewQuoteHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"name": "q"})
	req, w := makeChiRequest(http.MethodPost, "/quotes", body, nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ===== GET /quotes/{id} =====

func TestQuoteGetByID_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockQuoteRepo{
		getFn: func(_ context.Context, got uuid.UUID) (*quote.Quote, error) {
			assert.Equal(t, id, got)
			return sampleQuote(id, "Data tier"), nil
		},
	}
	h := handler.NewQuoteHandler(repo)

	req, w := makeChiRequest(http.MethodGet, "/quotes/"+id.String(), nil, map[string]string{"id": id.String()})
	h.GetByID(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Data tier", data["name"])
}

func TestQuoteGetByID_NotFound(t *testing.T) {
	t.Parallel()

	h := handler.NewQuoteHandler(&mockQuoteRepo{})
	id := uuid.New().String()

	req, w := makeChiRequest(http.MethodGet, "/quotes/"+id, nil, map[string]string{"id": id})
	h.GetByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestQuoteGetByID_InvalidID(t *testing.T) {
	t.Parallel()

	repo := &mockQuoteRepo{}
	h := handler.NewQuoteHandler(repo)

	req, w := makeChiRequest(http.MethodGet, "/quotes/not-a-uuid", nil, map[string]string{"id": "not-a-uuid"})
	h.GetByID(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", errorCode(t, w))
	assert.Zero(t, repo.calls)
}

// ===== PUT /quotes/{id} =====

func TestQuoteUpdate_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	var gotName string
	repo := &mockQuoteRepo{
		renameFn: func(_ context.Context, got uuid.UUID, name string) error {
			assert.Equal(t, id, got)
			gotName = name
			return nil
		},
	}
	h := handler.NewQuoteHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"name": "Renamed "})
	req, w := makeChiRequest(http.MethodPut, "/quotes/"+id.String(), body, map[string]string{"id": id.String()})
	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", gotName)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"status": "ok"}, data)
}

func TestQuoteUpdate_NoFieldsRejectedBeforeStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty object", body: `{}`},
		{name: "null name", body: `{"name":null}`},
		{name: "unknown field only", body: `{"title":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockQuoteRepo{}
			h := handler.NewQuoteHandler(repo)
			id := uuid.New().String()

			req, w := makeChiRequest(http.MethodPut, "/quotes/"+id, []byte(tt.body), map[string]string{"id": id})
			h.Update(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
			assert.Zero(t, repo.calls, "store must not be touched")
		})
	}
}

func TestQuoteUpdate_BlankName(t *testing.T) {
	t.Parallel()

	repo := &mockQuoteRepo{}
	h := handler.NewQuoteHandler(repo)
	id := uuid.New().String()

	req, w := makeChiRequest(http.MethodPut, "/quotes/"+id, []byte(`{"name":"  "}`), map[string]string{"id": id})
	h.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	assert.Zero(t, repo.calls)
}

func TestQuoteUpdate_StoreError(t *testing.T) {
	t.Parallel()

	repo := &mockQuoteRepo{
		renameFn: func(_ context.Context, _ uuid.UUID, _ string) error { return errBoom },
	}
	h := handler.NewQuoteHandler(repo)
	id := uuid.New().String()

	req, w := makeChiRequest(http.MethodPut, "/quotes/"+id, []byte(`{"name":"x"}`), map[string]string{"id": id})
	h.Update(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ===== DELETE /quotes/{id} =====

func TestQuoteDelete_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	var deleted uuid.UUID
	repo := &mockQuoteRepo{
		deleteFn: func(_ context.Context, got uuid.UUID) error {
			deleted = got
			return nil
		},
	}
	h := handler.NewQuoteHandler(repo)

	req, w := makeChiRequest(http.MethodDelete, "/quotes/"+id.String(), nil, map[string]string{"id": id.String()})
	h.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, deleted)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
}

func TestQuoteDelete_StoreError(t *testing.T) {
	t.Parallel()

	repo := &mockQuoteRepo{
		deleteFn: func(_ context.Context, _ uuid.UUID) error { return errBoom },
	}
	h := handler.NewQuoteHandler(repo)
	id := uuid.New().String()

	req, w := makeChiRequest(http.MethodDelete, "/quotes/"+id, nil, map[string]string{"id": id})
	h.Delete(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
