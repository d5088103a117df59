package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/stock-adjustment-service/internal/handler"
	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/pagination"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
	"github.com/maxviazov/stock-adjustment-service/internal/repository/memory"
	"github.com/maxviazov/stock-adjustment-service/internal/service"
	"github.com/maxviazov/stock-adjustment-service/pkg/response"
)

type page struct {
	Data         []model.Adjustment `json:"data"`
	Total        int                `json:"total"`
	Limit        int                `json:"limit"`
	Skip         int                `json:"skip"`
	Page         int                `json:"page"`
	Pages        int                `json:"pages"`
	LastModified *time.Time         `json:"lastModified"`
}

// newAPI wires the real services over an in-memory store.
func newAPI(t *testing.T) (*gin.Engine, repository.Stores) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zerolog.Nop()
	s := memory.New().Stores()
	r := gin.New()
	handler.Register(r, s.Pinger,
		service.NewItemService(s.Items, logger),
		service.NewStockService(s.Stocks, s.Items, logger),
		service.NewAdjustmentService(s.Adjustments, s.Stocks, s.Tx, logger),
		logger,
	)
	return r, s
}

func do(r http.Handler, method, path string, body any, hdr ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// seed creates one item, one stock and n additions through the API.
func seed(t *testing.T, r http.Handler, n int) model.Stock {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/items", map[string]any{"code": "PUR-1", "name": "Water purifier"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item model.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	w = do(r, http.MethodPost, "/api/v1/stocks", map[string]any{"item_id": item.ID, "store_id": 5, "owner_id": 8})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var stock model.Stock
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stock))

	for i := 0; i < n; i++ {
		w = do(r, http.MethodPost, "/api/v1/adjustments", map[string]any{
			"stock_id": stock.ID, "type": "addition", "reason": "purchased", "quantity": 2,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	return stock
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) page {
	t.Helper()
	var p page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p), w.Body.String())
	return p
}

func TestAdjustments_ListDefaults(t *testing.T) {
	r, _ := newAPI(t)
	seed(t, r, 32)

	w := do(r, http.MethodGet, "/api/v1/adjustments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decodePage(t, w)
	assert.Len(t, p.Data, 10)
	assert.Equal(t, 32, p.Total)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Skip)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 4, p.Pages)
	require.NotNil(t, p.LastModified)
	assert.NotEmpty(t, w.Header().Get("Last-Modified"))
}

func TestAdjustments_ListWithOptions(t *testing.T) {
	r, _ := newAPI(t)
	seed(t, r, 32)

	p := decodePage(t, do(r, http.MethodGet, "/api/v1/adjustments?page=1&limit=20", nil))
	assert.Len(t, p.Data, 20)
	assert.Equal(t, 2, p.Pages)

	p = decodePage(t, do(r, http.MethodGet, "/api/v1/adjustments?page=2&limit=20", nil))
	assert.Len(t, p.Data, 12)
	assert.Equal(t, 20, p.Skip)
}

func TestAdjustments_ListEmpty(t *testing.T) {
	r, _ := newAPI(t)
	w := do(r, http.MethodGet, "/api/v1/adjustments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"total":0,"limit":10,"skip":0,"page":1,"pages":0}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Last-Modified"))
}

func TestAdjustments_ListFilters(t *testing.T) {
	r, s := newAPI(t)
	stock := seed(t, r, 3)
	w := do(r, http.MethodPost, "/api/v1/adjustments", map[string]any{
		"stock_id": stock.ID, "type": "removal", "reason": "expired", "quantity": 1, "party_id": 77,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	p := decodePage(t, do(r, http.MethodGet, "/api/v1/adjustments?type=removal", nil))
	require.Len(t, p.Data, 1)
	assert.Equal(t, int64(77), p.Data[0].PartyID)

	p = decodePage(t, do(r, http.MethodGet, fmt.Sprintf("/api/v1/adjustments?stock_id=%d&party_id=8", stock.ID), nil))
	assert.Equal(t, 3, p.Total)

	got, err := s.Stocks.GetByID(context.Background(), stock.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5, got.Quantity, 1e-9)
}

func TestAdjustments_ListInvalidQuery(t *testing.T) {
	r, _ := newAPI(t)
	cases := map[string]string{
		"/api/v1/adjustments?page=0":                     "page",
		"/api/v1/adjustments?page=-1":                    "page",
		"/api/v1/adjustments?limit=0":                    "limit",
		"/api/v1/adjustments?page=abc":                   "page",
		"/api/v1/adjustments?limit=ten":                  "limit",
		"/api/v1/adjustments?item_id=x":                  "item_id",
		"/api/v1/adjustments?stock_id=-3":                "stock_id",
		"/api/v1/adjustments?limit=1001":                 "limit",
		"/api/v1/adjustments?limit=9223372036854775807":  "limit",
		"/api/v1/adjustments?limit=99999999999999999999": "limit",
		"/api/v1/adjustments?page=9223372036854775807":   "page",
	}
	for path, field := range cases {
		t.Run(path, func(t *testing.T) {
			w := do(r, http.MethodGet, path, nil)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			var payload response.ErrorPayload
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
			assert.Equal(t, "invalid_input", payload.Error)
			require.NotEmpty(t, payload.FieldErrors)
			assert.Equal(t, field, payload.FieldErrors[0].Field)
		})
	}
}

func TestAdjustments_ListMaxLimit(t *testing.T) {
	r, _ := newAPI(t)
	seed(t, r, 3)

	p := decodePage(t, do(r, http.MethodGet, fmt.Sprintf("/api/v1/adjustments?limit=%d", pagination.MaxLimit), nil))
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 1, p.Pages)
	assert.Len(t, p.Data, 3)
}

func TestAdjustments_IfModifiedSince(t *testing.T) {
	r, _ := newAPI(t)
	seed(t, r, 2)

	w := do(r, http.MethodGet, "/api/v1/adjustments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lm := w.Header().Get("Last-Modified")
	require.NotEmpty(t, lm)

	w = do(r, http.MethodGet, "/api/v1/adjustments", nil, "If-Modified-Since", lm)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Zero(t, w.Body.Len())

	stale := time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)
	w = do(r, http.MethodGet, "/api/v1/adjustments", nil, "If-Modified-Since", stale)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/adjustments", nil, "If-Modified-Since", "not a date")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdjustments_CreateInsufficient(t *testing.T) {
	r, s := newAPI(t)
	stock := seed(t, r, 1)

	w := do(r, http.MethodPost, "/api/v1/adjustments", map[string]any{
		"stock_id": stock.ID, "type": "removal", "reason": "stolen", "quantity": 3,
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	got, err := s.Stocks.GetByID(context.Background(), stock.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2, got.Quantity, 1e-9)
}

func TestAdjustments_CreateMalformedBody(t *testing.T) {
	r, _ := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/adjustments", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdjustments_GetByID(t *testing.T) {
	r, _ := newAPI(t)
	seed(t, r, 1)

	w := do(r, http.MethodGet, "/api/v1/adjustments/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var adj model.Adjustment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adj))
	assert.Equal(t, model.ReasonPurchased, adj.Reason)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/adjustments/99", nil).Code)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/adjustments/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/adjustments/0", nil).Code)
}

// failingAdjustments reports every read as a storage outage.
type failingAdjustments struct{ repository.AdjustmentRepository }

func (failingAdjustments) Count(context.Context, repository.AdjustmentFilter) (int, error) {
	return 0, fmt.Errorf("%w: pool closed", repository.ErrUnavailable)
}

func TestAdjustments_ListStoreUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := service.NewAdjustmentService(failingAdjustments{}, nil, nil, zerolog.Nop())
	handler.Register(r, stubPinger{}, nil, nil, svc, zerolog.Nop())

	w := do(r, http.MethodGet, "/api/v1/adjustments", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var payload response.ErrorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "unavailable", payload.Error)
}
