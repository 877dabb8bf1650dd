package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopmicro/orderflow/internal/orders"
	"github.com/shopmicro/orderflow/internal/validation"
)

// RegisterOrderRoutes registers the payment service surface.
func RegisterOrderRoutes(r *gin.Engine, engine *orders.Engine, store Pinger) {
	v := validation.New()

	r.GET("/", Health("payment", "Payment service is healthy", store))

	r.GET("/orders", func(c *gin.Context) {
		list, err := engine.List(c.Request.Context())
		if err != nil {
			slog.Error("failed to list orders", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "list_orders_failed",
				"message": "failed to fetch orders",
			})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.POST("/orders", func(c *gin.Context) {
		var req orders.OrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		order, err := engine.Create(c.Request.Context(), req)
		if err != nil {
			writeCreateOrderError(c, req, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		id := c.Param("id")
		order, err := engine.Get(c.Request.Context(), id)
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "order_not_found",
				"message": "order with ID " + id + " not found",
			})
			return
		}
		if err != nil {
			slog.Error("failed to fetch order", "order_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "get_order_failed",
				"message": "failed to fetch order",
			})
			return
		}
		c.JSON(http.StatusOK, order)
	})
}

func writeCreateOrderError(c *gin.Context, req orders.OrderRequest, err error) {
	var stockErr *orders.InsufficientStockError
	switch {
	case errors.Is(err, orders.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "product_not_found",
			"message": "product with ID " + req.ProductID + " not found",
		})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "insufficient_stock",
			"message": fmt.Sprintf("insufficient product quantity, available: %d", stockErr.Available),
		})
	case errors.Is(err, orders.ErrUpstream):
		slog.Error("catalog lookup failed", "product_id", req.ProductID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "catalog_unavailable",
			"message": "failed to fetch product from catalog",
		})
	default:
		slog.Error("failed to create order", "product_id", req.ProductID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "create_order_failed",
			"message": "failed to create order",
		})
	}
}
