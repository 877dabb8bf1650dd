// Package orders implements the order workflow: validation against the
// catalog, pricing, persistence and the deferred completion step.
package orders

import (
	"errors"
	"fmt"
	"strconv"
)

// Namespace is the key prefix order records are stored under.
const Namespace = "order"

// StreamOrderCompleted receives the full snapshot of every order that
// reaches the completed state.
const StreamOrderCompleted = "order_completed"

// Status is the order lifecycle state. An order is created pending and
// transitions exactly once to completed or failed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Order is a persisted order record. Price is a snapshot of the product
// price at order time; fee and total are derived from it.
type Order struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Price     float64 `json:"price"`
	Fee       float64 `json:"fee"`
	Total     float64 `json:"total"`
	Quantity  int     `json:"quantity"`
	Status    Status  `json:"status"`
}

// OrderRequest is the creation payload. The wire field for the product id
// is "id", matching the public API.
type OrderRequest struct {
	ProductID string `json:"id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// Fee rate applied to the unit price of every order.
const feeRate = 0.2

var (
	// ErrNotFound is returned when an order id resolves to no record.
	ErrNotFound = errors.New("order not found")

	// ErrProductNotFound is returned when the catalog has no product with
	// the requested id.
	ErrProductNotFound = errors.New("product not found")

	// ErrUpstream is returned when the catalog service is unreachable or
	// answers with anything other than success or not-found.
	ErrUpstream = errors.New("catalog request failed")
)

// InsufficientStockError reports a business-rule violation: the requested
// quantity exceeds what the catalog has available.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient product quantity, available: %d", e.Available)
}

func encodeOrder(o Order) map[string]string {
	return map[string]string{
		"product_id": o.ProductID,
		"price":      strconv.FormatFloat(o.Price, 'f', -1, 64),
		"fee":        strconv.FormatFloat(o.Fee, 'f', -1, 64),
		"total":      strconv.FormatFloat(o.Total, 'f', -1, 64),
		"quantity":   strconv.Itoa(o.Quantity),
		"status":     string(o.Status),
	}
}

// snapshot is the stream payload: the encoded order plus its id.
func snapshot(o Order) map[string]string {
	fields := encodeOrder(o)
	fields["id"] = o.ID
	return fields
}

func decodeOrder(id string, fields map[string]string) (*Order, error) {
	price, err := strconv.ParseFloat(fields["price"], 64)
	if err != nil {
		return nil, fmt.Errorf("order %s: bad price %q: %w", id, fields["price"], err)
	}
	fee, err := strconv.ParseFloat(fields["fee"], 64)
	if err != nil {
		return nil, fmt.Errorf("order %s: bad fee %q: %w", id, fields["fee"], err)
	}
	total, err := strconv.ParseFloat(fields["total"], 64)
	if err != nil {
		return nil, fmt.Errorf("order %s: bad total %q: %w", id, fields["total"], err)
	}
	quantity, err := strconv.Atoi(fields["quantity"])
	if err != nil {
		return nil, fmt.Errorf("order %s: bad quantity %q: %w", id, fields["quantity"], err)
	}
	return &Order{
		ID:        id,
		ProductID: fields["product_id"],
		Price:     price,
		Fee:       fee,
		Total:     total,
		Quantity:  quantity,
		Status:    Status(fields["status"]),
	}, nil
}
