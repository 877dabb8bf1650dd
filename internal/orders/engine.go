package orders

import (
	"context"
	"fmt"
	"log/slog"
)

// Store is the subset of key-value store operations the order workflow
// needs. *kvstore.Store satisfies it.
type Store interface {
	Save(ctx context.Context, namespace string, fields map[string]string) (string, error)
	SaveID(ctx context.Context, namespace, id string, fields map[string]string) error
	Get(ctx context.Context, namespace, id string) (map[string]string, error)
	ListIDs(ctx context.Context, namespace string) ([]string, error)
	Publish(ctx context.Context, stream string, fields map[string]string) error
}

// Engine drives orders through their lifecycle. Creation is synchronous;
// the transition out of pending happens later on the Completer.
type Engine struct {
	store     Store
	catalog   CatalogLookup
	completer *Completer
}

func NewEngine(store Store, catalog CatalogLookup, completer *Completer) *Engine {
	return &Engine{
		store:     store,
		catalog:   catalog,
		completer: completer,
	}
}

// Create validates the request against the catalog, computes pricing,
// persists the order as pending and schedules its completion. The pending
// order is returned before the completion step runs; nothing is persisted
// when validation fails.
func (e *Engine) Create(ctx context.Context, req OrderRequest) (*Order, error) {
	product, err := e.catalog.Product(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if product.Quantity < req.Quantity {
		return nil, &InsufficientStockError{Available: product.Quantity}
	}

	price := product.Price
	fee := feeRate * price
	order := Order{
		ProductID: product.ID,
		Price:     price,
		Fee:       fee,
		Total:     price*float64(req.Quantity) + fee,
		Quantity:  req.Quantity,
		Status:    StatusPending,
	}

	id, err := e.store.Save(ctx, Namespace, encodeOrder(order))
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	order.ID = id

	slog.Info("order created", "order_id", id, "product_id", order.ProductID, "total", order.Total)
	e.completer.Enqueue(id)
	return &order, nil
}

// Get returns the order with the given id, or ErrNotFound.
func (e *Engine) Get(ctx context.Context, id string) (*Order, error) {
	fields, err := e.store.Get(ctx, Namespace, id)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, ErrNotFound
	}
	return decodeOrder(id, fields)
}

// List loads every order under the namespace, omitting ids deleted between
// the scan and the read.
func (e *Engine) List(ctx context.Context) ([]Order, error) {
	ids, err := e.store.ListIDs(ctx, Namespace)
	if err != nil {
		return nil, err
	}
	orders := make([]Order, 0, len(ids))
	for _, id := range ids {
		fields, err := e.store.Get(ctx, Namespace, id)
		if err != nil {
			return nil, err
		}
		if fields == nil {
			continue
		}
		o, err := decodeOrder(id, fields)
		if err != nil {
			slog.Warn("skipping undecodable order", "order_id", id, "error", err)
			continue
		}
		orders = append(orders, *o)
	}
	return orders, nil
}
