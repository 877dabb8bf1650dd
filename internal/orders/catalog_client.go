package orders

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/shopmicro/orderflow/internal/catalog"
)

// CatalogLookup resolves a product id to its catalog record. The remote
// implementation calls the catalog service over HTTP; tests substitute an
// in-process fake.
type CatalogLookup interface {
	Product(ctx context.Context, id string) (*catalog.Product, error)
}

// CatalogClient looks products up via the catalog service HTTP API.
type CatalogClient struct {
	http *resty.Client
}

// NewCatalogClient builds a client for the catalog at baseURL. Requests
// exceeding the timeout fail as upstream errors.
func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		http: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
	}
}

// Product fetches GET /products/{id}. A 404 maps to ErrProductNotFound;
// transport errors, timeouts and any other non-200 map to ErrUpstream.
func (c *CatalogClient) Product(ctx context.Context, id string) (*catalog.Product, error) {
	var product catalog.Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&product).
		Get("/products/" + id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &product, nil
	case http.StatusNotFound:
		return nil, ErrProductNotFound
	default:
		return nil, fmt.Errorf("%w: catalog returned %d", ErrUpstream, resp.StatusCode())
	}
}
