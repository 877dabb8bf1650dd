package catalog

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmicro/orderflow/internal/kvstore"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	store := kvstore.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = store.Close() })
	return NewService(store)
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Product{Name: "Laptop", Price: 999.99, Quantity: 10})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "Laptop", got.Name)
	assert.Equal(t, 999.99, got.Price)
	assert.Equal(t, 10, got.Quantity)
}

func TestCreateTrimsName(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), Product{Name: "  Laptop  ", Price: 1, Quantity: 0})
	require.NoError(t, err)
	assert.Equal(t, "Laptop", created.Name)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input Product
	}{
		{"empty name", Product{Name: "", Price: 10, Quantity: 1}},
		{"blank name", Product{Name: "   ", Price: 10, Quantity: 1}},
		{"zero price", Product{Name: "Laptop", Price: 0, Quantity: 1}},
		{"negative price", Product{Name: "Laptop", Price: -1, Quantity: 1}},
		{"negative quantity", Product{Name: "Laptop", Price: 10, Quantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			assert.Error(t, err)
		})
	}

	// nothing was persisted for any of the rejected inputs
	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGetMissing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteThenGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Product{Name: "Laptop", Price: 999.99, Quantity: 10})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}

func TestList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, Product{Name: "Laptop", Price: 999.99, Quantity: 10})
	require.NoError(t, err)
	b, err := svc.Create(ctx, Product{Name: "Mouse", Price: 19.99, Quantity: 100})
	require.NoError(t, err)

	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Product{*a, *b}, products)
}

// stubStore simulates a record deleted between the key scan and the read.
type stubStore struct {
	ids    []string
	fields map[string]map[string]string
}

func (s *stubStore) Save(context.Context, string, map[string]string) (string, error) {
	return "", nil
}

func (s *stubStore) Get(_ context.Context, _, id string) (map[string]string, error) {
	return s.fields[id], nil
}

func (s *stubStore) ListIDs(context.Context, string) ([]string, error) {
	return s.ids, nil
}

func (s *stubStore) Delete(context.Context, string, string) (int64, error) {
	return 0, nil
}

func TestListSkipsConcurrentlyDeleted(t *testing.T) {
	svc := NewService(&stubStore{
		ids: []string{"alive", "gone"},
		fields: map[string]map[string]string{
			"alive": {"name": "Laptop", "price": "999.99", "quantity": "10"},
		},
	})

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "alive", products[0].ID)
}
