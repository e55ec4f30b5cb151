package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(newTestService())
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()
	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRestockPlaceTickFlow(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/inventory/restock", gin.H{"item": "bun", "qty": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(240), decodeBody(t, w)["cost"])

	w = doJSON(t, srv, http.MethodPost, "/api/v1/kitchen/place", gin.H{"output": "toasted-bun"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/kitchen/tick", gin.H{"delta_ms": 3000})
	require.Equal(t, http.StatusOK, w.Code)
	var tick struct {
		Completed []string `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tick))
	assert.Equal(t, []string{"toasted-bun"}, tick.Completed)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var counts map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts["bun"])
}

func TestPlaceWithoutStockConflicts(t *testing.T) {
	srv := newTestServer()
	w := doJSON(t, srv, http.MethodPost, "/api/v1/kitchen/place", gin.H{"output": "toasted-bun"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/inventory/restock", gin.H{"item": "cheese", "qty": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/orders", gin.H{"item": "cheeseburger", "customer": "table-7"})
	require.Equal(t, http.StatusCreated, w.Code)
	var order struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	require.NotEmpty(t, order.ID)

	// Nothing prepped yet, so assembly conflicts and the order stays pending.
	w = doJSON(t, srv, http.MethodPost, "/api/v1/orders/"+order.ID+"/assemble", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/orders/no-such-order/assemble", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/orders/"+order.ID+"/collect", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "pending orders are not collectable")
}

func TestSubmitUnknownItem(t *testing.T) {
	srv := newTestServer()
	w := doJSON(t, srv, http.MethodPost, "/api/v1/orders", gin.H{"item": "unicorn-steak"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodGet, "/api/v1/catalog/items", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/catalog/plan/cheeseburger", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "cheeseburger", body["target"])
	assert.NotEmpty(t, body["steps"])

	w = doJSON(t, srv, http.MethodGet, "/api/v1/catalog/plan/bun", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTickRejectsNegativeDelta(t *testing.T) {
	srv := newTestServer()
	w := doJSON(t, srv, http.MethodPost, "/api/v1/kitchen/tick", gin.H{"delta_ms": -50})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSweepEndpoint(t *testing.T) {
	srv := newTestServer()
	w := doJSON(t, srv, http.MethodPost, "/api/v1/inventory/sweep", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["removed"])
}
