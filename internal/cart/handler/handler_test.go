package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/trimstore-service/internal/cart/storage"
	"github.com/fekuna/trimstore-service/internal/cart/usecase"
	"github.com/fekuna/trimstore-service/internal/middlewares"
	"github.com/fekuna/trimstore-service/internal/model"
	productrepo "github.com/fekuna/trimstore-service/internal/product/repository"
	"github.com/fekuna/trimstore-service/pkg/logger"
)

const cartID = "0d7c1f34-0b8a-4d0e-8c4a-2f6b9f0e1a22"

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		CartID string `json:"cartId"`
		Count  int    `json:"count"`
		Total  string `json:"total"`
		Items  []struct {
			Key      string `json:"key"`
			Quantity int    `json:"quantity"`
			Price    string `json:"price"`
		} `json:"items"`
	} `json:"data"`
}

func newServer(t *testing.T) http.Handler {
	t.Helper()
	log := logger.NewNopLogger()
	products := productrepo.NewMemoryRepository()
	require.NoError(t, products.Create(context.Background(), &model.Product{
		BaseModel: model.BaseModel{ID: "P1"},
		Name:      "Elastic Band",
		Category:  "elastic",
		IsActive:  true,
		Variants: model.VariantList{
			{Size: "1 inch", Color: "White", Pack: "Roll", Price: decimal.RequireFromString("80"), StockQty: 3, SKU: "EL-W"},
			{Size: "1 inch", Color: "Black", Pack: "Spool", Price: decimal.RequireFromString("82"), StockQty: 5, SKU: "EL-B"},
		},
	}))

	uc := usecase.NewCartUseCase(storage.NewMemoryStore(), products, log)
	r := chi.NewRouter()
	NewCartHandler(uc, middlewares.NewMiddleware(log), log).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body, id string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if id != "" {
		req.Header.Set(CartIDHeader, id)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestCartFlow(t *testing.T) {
	h := newServer(t)

	rec, env := do(t, h, http.MethodPost, "/cart/items",
		`{"productId":"P1","selection":{"size":"1 inch","color":"Black","pack":"Roll"},"quantity":2}`, cartID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, cartID, rec.Header().Get(CartIDHeader))
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, "82", env.Data.Items[0].Price, "elastic ignores the pack in the selection")
	key := env.Data.Items[0].Key

	rec, env = do(t, h, http.MethodPatch, "/cart/items", `{"key":"`+key+`","quantity":4}`, cartID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 4, env.Data.Count)
	assert.Equal(t, "328", env.Data.Total)

	rec, _ = do(t, h, http.MethodPatch, "/cart/items", `{"key":"`+key+`","quantity":0}`, cartID)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = do(t, h, http.MethodDelete, "/cart/items?key="+url.QueryEscape(key), "", cartID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.Data.Items)

	rec, _ = do(t, h, http.MethodDelete, "/cart/items?key="+url.QueryEscape(key), "", cartID)
	assert.Equal(t, http.StatusOK, rec.Code, "removing twice is fine")
}

func TestCart_IssuesIDWhenMissing(t *testing.T) {
	h := newServer(t)

	rec, env := do(t, h, http.MethodGet, "/cart", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(CartIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, env.Data.CartID)
}

func TestCart_RejectsBadRequests(t *testing.T) {
	h := newServer(t)

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		id       string
		wantCode int
	}{
		{"bad cart id", http.MethodGet, "/cart", "", "not-a-uuid", http.StatusBadRequest},
		{"missing product", http.MethodPost, "/cart/items", `{"quantity":1}`, cartID, http.StatusUnprocessableEntity},
		{"unknown product", http.MethodPost, "/cart/items", `{"productId":"nope","quantity":1}`, cartID, http.StatusNotFound},
		{"unavailable combination", http.MethodPost, "/cart/items", `{"productId":"P1","selection":{"color":"Gold"}}`, cartID, http.StatusUnprocessableEntity},
		{"missing key", http.MethodDelete, "/cart/items", "", cartID, http.StatusBadRequest},
		{"malformed key", http.MethodPatch, "/cart/items", `{"key":"x","quantity":1}`, cartID, http.StatusBadRequest},
		{"line not found", http.MethodPatch, "/cart/items", `{"key":"P9||||","quantity":1}`, cartID, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, tt.method, tt.target, tt.body, tt.id)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.False(t, env.Success)
		})
	}
}
