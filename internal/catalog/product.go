// Package catalog owns product records and their CRUD operations over the
// key-value store.
package catalog

import (
	"fmt"
	"strconv"
)

// Namespace is the key prefix product records are stored under.
const Namespace = "product"

// Product is a catalog record. ID is assigned on creation and immutable;
// all other fields are mutated only by full-record overwrite.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name" validate:"required,notblank,max=200"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

func encodeProduct(p Product) map[string]string {
	return map[string]string{
		"name":     p.Name,
		"price":    strconv.FormatFloat(p.Price, 'f', -1, 64),
		"quantity": strconv.Itoa(p.Quantity),
	}
}

func decodeProduct(id string, fields map[string]string) (*Product, error) {
	price, err := strconv.ParseFloat(fields["price"], 64)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad price %q: %w", id, fields["price"], err)
	}
	quantity, err := strconv.Atoi(fields["quantity"])
	if err != nil {
		return nil, fmt.Errorf("product %s: bad quantity %q: %w", id, fields["quantity"], err)
	}
	return &Product{
		ID:       id,
		Name:     fields["name"],
		Price:    price,
		Quantity: quantity,
	}, nil
}
