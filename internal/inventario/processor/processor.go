package processor

import (
	"context"
	"errors"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"

	"github.com/google/uuid"
)

var ErrOperacionInvalida = errors.New("operación de stock no válida")

// Stock operations accepted by AjustarStock.
const (
	OperacionSumar  = "sumar"
	OperacionRestar = "restar"
)

// Store defines the database operations required by InventarioProcessor.
type Store interface {
	ListInventario(ctx context.Context) ([]store.InventarioItem, error)
	GetInventarioByID(ctx context.Context, id uuid.UUID) (store.InventarioItem, error)
	CreateInventario(ctx context.Context, item store.InventarioItem) (store.InventarioItem, error)
	UpdateInventario(ctx context.Context, item store.InventarioItem) (store.InventarioItem, error)
	DeleteInventario(ctx context.Context, id uuid.UUID) error
	IncrementInventarioStock(ctx context.Context, id uuid.UUID, delta int) (store.InventarioItem, error)
	ListInventarioStockBajo(ctx context.Context, limite int) ([]store.InventarioItem, error)
}

type InventarioProcessor struct {
	store  Store
	logger *observability.Logger
}

func New(store Store, logger *observability.Logger) InventarioProcessor {
	return InventarioProcessor{
		store:  store,
		logger: logger,
	}
}

func (p *InventarioProcessor) List(ctx context.Context) ([]store.InventarioItem, error) {
	return p.store.ListInventario(ctx)
}

func (p *InventarioProcessor) Get(ctx context.Context, id uuid.UUID) (store.InventarioItem, error) {
	return p.store.GetInventarioByID(ctx, id)
}

func (p *InventarioProcessor) Create(ctx context.Context, item store.InventarioItem) (store.InventarioItem, error) {
	return p.store.CreateInventario(ctx, item)
}

func (p *InventarioProcessor) Update(ctx context.Context, item store.InventarioItem) (store.InventarioItem, error) {
	return p.store.UpdateInventario(ctx, item)
}

func (p *InventarioProcessor) Delete(ctx context.Context, id uuid.UUID) error {
	return p.store.DeleteInventario(ctx, id)
}

// AjustarStock applies a stock movement atomically; "restar" sends a negative
// delta so concurrent adjustments never lose updates.
func (p *InventarioProcessor) AjustarStock(ctx context.Context, id uuid.UUID, operacion string, cantidad int) (store.InventarioItem, error) {
	delta := cantidad
	switch operacion {
	case OperacionSumar:
	case OperacionRestar:
		delta = -cantidad
	default:
		return store.InventarioItem{}, ErrOperacionInvalida
	}

	item, err := p.store.IncrementInventarioStock(ctx, id, delta)
	if err != nil {
		return store.InventarioItem{}, err
	}

	if item.Cantidad <= item.StockMinimo {
		ctx = observability.WithFields(ctx, observability.Field{Key: "item", Value: item.Nombre})
		p.logger.Warn(ctx, "Inventario item at or below minimum stock")
	}
	return item, nil
}

func (p *InventarioProcessor) StockBajo(ctx context.Context, limite int) ([]store.InventarioItem, error) {
	return p.store.ListInventarioStockBajo(ctx, limite)
}
