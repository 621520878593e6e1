package processor

import (
	"context"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"

	"github.com/google/uuid"
)

// Store defines the database operations required by GanadoProcessor.
type Store interface {
	ListGanado(ctx context.Context) ([]store.Ganado, error)
	GetGanadoByID(ctx context.Context, id uuid.UUID) (store.Ganado, error)
	CreateGanado(ctx context.Context, g store.Ganado) (store.Ganado, error)
	UpdateGanado(ctx context.Context, g store.Ganado) (store.Ganado, error)
	DeleteGanado(ctx context.Context, id uuid.UUID) error
}

type GanadoProcessor struct {
	store  Store
	logger *observability.Logger
}

func New(store Store, logger *observability.Logger) GanadoProcessor {
	return GanadoProcessor{
		store:  store,
		logger: logger,
	}
}

func (p *GanadoProcessor) List(ctx context.Context) ([]store.Ganado, error) {
	return p.store.ListGanado(ctx)
}

func (p *GanadoProcessor) Get(ctx context.Context, id uuid.UUID) (store.Ganado, error) {
	return p.store.GetGanadoByID(ctx, id)
}

func (p *GanadoProcessor) Create(ctx context.Context, g store.Ganado) (store.Ganado, error) {
	created, err := p.store.CreateGanado(ctx, g)
	if err != nil {
		return store.Ganado{}, err
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "arete", Value: created.Arete})
	p.logger.Info(ctx, "Ganado registered")
	return created, nil
}

func (p *GanadoProcessor) Update(ctx context.Context, g store.Ganado) (store.Ganado, error) {
	return p.store.UpdateGanado(ctx, g)
}

func (p *GanadoProcessor) Delete(ctx context.Context, id uuid.UUID) error {
	return p.store.DeleteGanado(ctx, id)
}
