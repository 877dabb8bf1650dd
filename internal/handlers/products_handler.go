package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/shopmicro/orderflow/internal/catalog"
)

// RegisterProductRoutes registers the catalog service surface.
func RegisterProductRoutes(r *gin.Engine, svc *catalog.Service, store Pinger) {
	r.GET("/", Health("product-api", "Product API is healthy", store))

	r.GET("/products", func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			slog.Error("failed to list products", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "list_products_failed",
				"message": "failed to fetch products",
			})
			return
		}
		c.JSON(http.StatusOK, products)
	})

	r.POST("/products", func(c *gin.Context) {
		var input catalog.Product
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request_body",
				"message": err.Error(),
			})
			return
		}

		created, err := svc.Create(c.Request.Context(), input)
		if err != nil {
			var ve validatorv10.ValidationErrors
			if errors.As(err, &ve) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":  "validation_failed",
					"fields": fieldErrors(ve),
				})
				return
			}
			slog.Error("failed to create product", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "create_product_failed",
				"message": "failed to create product",
			})
			return
		}
		c.JSON(http.StatusCreated, created)
	})

	r.GET("/products/:id", func(c *gin.Context) {
		id := c.Param("id")
		product, err := svc.Get(c.Request.Context(), id)
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "product_not_found",
				"message": "product with ID " + id + " not found",
			})
			return
		}
		if err != nil {
			slog.Error("failed to fetch product", "product_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "get_product_failed",
				"message": "failed to fetch product",
			})
			return
		}
		c.JSON(http.StatusOK, product)
	})

	r.DELETE("/products/:id", func(c *gin.Context) {
		id := c.Param("id")
		err := svc.Delete(c.Request.Context(), id)
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "product_not_found",
				"message": "product with ID " + id + " not found",
			})
			return
		}
		if err != nil {
			slog.Error("failed to delete product", "product_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "delete_product_failed",
				"message": "failed to delete product",
			})
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func fieldErrors(ve validatorv10.ValidationErrors) map[string]string {
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.StructNamespace()] = fe.Error()
	}
	return out
}
