package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/shopmicro/orderflow/internal/validation"
)

// ErrNotFound is returned when a product id resolves to no record.
var ErrNotFound = errors.New("product not found")

// Store is the subset of key-value store operations the catalog needs.
// *kvstore.Store satisfies it.
type Store interface {
	Save(ctx context.Context, namespace string, fields map[string]string) (string, error)
	Get(ctx context.Context, namespace, id string) (map[string]string, error)
	ListIDs(ctx context.Context, namespace string) ([]string, error)
	Delete(ctx context.Context, namespace, id string) (int64, error)
}

// Service implements product CRUD over the store.
type Service struct {
	store    Store
	validate *validatorv10.Validate
}

func NewService(store Store) *Service {
	return &Service{
		store:    store,
		validate: validation.New(),
	}
}

// List loads every product under the namespace. Ids that resolve to absence
// are skipped, so a record deleted between the scan and the read is simply
// omitted.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	ids, err := s.store.ListIDs(ctx, Namespace)
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(ids))
	for _, id := range ids {
		fields, err := s.store.Get(ctx, Namespace, id)
		if err != nil {
			return nil, err
		}
		if fields == nil {
			continue
		}
		p, err := decodeProduct(id, fields)
		if err != nil {
			slog.Warn("skipping undecodable product", "product_id", id, "error", err)
			continue
		}
		products = append(products, *p)
	}
	return products, nil
}

// Create validates the input, persists it and returns the record with its
// assigned id. The name is stored whitespace-trimmed.
func (s *Service) Create(ctx context.Context, p Product) (*Product, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(p.Name)

	id, err := s.store.Save(ctx, Namespace, encodeProduct(p))
	if err != nil {
		return nil, err
	}
	p.ID = id
	slog.Info("product created", "product_id", id, "name", p.Name)
	return &p, nil
}

// Get returns the product with the given id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	fields, err := s.store.Get(ctx, Namespace, id)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, ErrNotFound
	}
	return decodeProduct(id, fields)
}

// Delete removes the product with the given id, or returns ErrNotFound when
// the store reports nothing removed.
func (s *Service) Delete(ctx context.Context, id string) error {
	removed, err := s.store.Delete(ctx, Namespace, id)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrNotFound
	}
	slog.Info("product deleted", "product_id", id)
	return nil
}
