package processor

import (
	"context"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListInventario(ctx context.Context) ([]store.InventarioItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.InventarioItem), args.Error(1)
}

func (m *mockStore) GetInventarioByID(ctx context.Context, id uuid.UUID) (store.InventarioItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.InventarioItem), args.Error(1)
}

func (m *mockStore) CreateInventario(ctx context.Context, item store.InventarioItem) (store.InventarioItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(store.InventarioItem), args.Error(1)
}

func (m *mockStore) UpdateInventario(ctx context.Context, item store.InventarioItem) (store.InventarioItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(store.InventarioItem), args.Error(1)
}

func (m *mockStore) DeleteInventario(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) IncrementInventarioStock(ctx context.Context, id uuid.UUID, delta int) (store.InventarioItem, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(store.InventarioItem), args.Error(1)
}

func (m *mockStore) ListInventarioStockBajo(ctx context.Context, limite int) ([]store.InventarioItem, error) {
	args := m.Called(ctx, limite)
	return args.Get(0).([]store.InventarioItem), args.Error(1)
}

func TestAjustarStock_SumarSendsPositiveDelta(t *testing.T) {
	st := &mockStore{}
	p := New(st, observability.NewLogger())
	id := uuid.New()

	st.On("IncrementInventarioStock", mock.Anything, id, 10).
		Return(store.InventarioItem{Cantidad: 30, StockMinimo: 5}, nil)

	item, err := p.AjustarStock(context.Background(), id, OperacionSumar, 10)
	require.NoError(t, err)
	assert.Equal(t, 30, item.Cantidad)
	st.AssertExpectations(t)
}

func TestAjustarStock_RestarSendsNegativeDelta(t *testing.T) {
	st := &mockStore{}
	p := New(st, observability.NewLogger())
	id := uuid.New()

	st.On("IncrementInventarioStock", mock.Anything, id, -4).
		Return(store.InventarioItem{Cantidad: 2, StockMinimo: 5}, nil)

	_, err := p.AjustarStock(context.Background(), id, OperacionRestar, 4)
	require.NoError(t, err)
	st.AssertExpectations(t)
}

func TestAjustarStock_RejectsUnknownOperation(t *testing.T) {
	p := New(&mockStore{}, observability.NewLogger())

	_, err := p.AjustarStock(context.Background(), uuid.New(), "duplicar", 2)

	assert.ErrorIs(t, err, ErrOperacionInvalida)
}
