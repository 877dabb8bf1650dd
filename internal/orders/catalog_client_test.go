package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmicro/orderflow/internal/catalog"
)

func newFakeCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/products/:id", func(c *gin.Context) {
		switch c.Param("id") {
		case "p1":
			c.JSON(http.StatusOK, catalog.Product{ID: "p1", Name: "Laptop", Price: 999.99, Quantity: 10})
		case "boom":
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
		}
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestCatalogClientFetchesProduct(t *testing.T) {
	srv := newFakeCatalogServer(t)
	client := NewCatalogClient(srv.URL, time.Second)

	product, err := client.Product(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, "Laptop", product.Name)
	assert.Equal(t, 999.99, product.Price)
	assert.Equal(t, 10, product.Quantity)
}

func TestCatalogClientNotFound(t *testing.T) {
	srv := newFakeCatalogServer(t)
	client := NewCatalogClient(srv.URL, time.Second)

	_, err := client.Product(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogClientUpstreamError(t *testing.T) {
	srv := newFakeCatalogServer(t)
	client := NewCatalogClient(srv.URL, time.Second)

	_, err := client.Product(context.Background(), "boom")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestCatalogClientUnreachable(t *testing.T) {
	srv := newFakeCatalogServer(t)
	srv.Close()
	client := NewCatalogClient(srv.URL, time.Second)

	_, err := client.Product(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestCatalogClientTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	client := NewCatalogClient(slow.URL, 20*time.Millisecond)
	_, err := client.Product(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrUpstream)
}
