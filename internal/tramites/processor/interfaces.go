package processor

import (
	"context"
	"ganadero-server/internal/store"

	"github.com/google/uuid"
)

// Store defines the database operations required by TramitesProcessor.
type Store interface {
	CreateTramite(ctx context.Context, t store.Tramite) (store.Tramite, error)
	GetTramiteByID(ctx context.Context, id uuid.UUID) (store.Tramite, error)
	GetTramiteByNumero(ctx context.Context, numero string) (store.Tramite, error)
	ListTramites(ctx context.Context, filters store.TramiteFilters) ([]store.Tramite, error)
	UpdateTramiteEtapa(ctx context.Context, id uuid.UUID, etapa int, estado string, historyItem store.JSONB) error
	UpdateTramiteEstado(ctx context.Context, id uuid.UUID, estado string, historyItem store.JSONB) error
	AppendTramiteObservacion(ctx context.Context, id uuid.UUID, observacion store.JSONB) error
	AppendTramiteDocumento(ctx context.Context, id uuid.UUID, documento store.JSONB) error
	GetTramiteStats(ctx context.Context) ([]store.TramiteStatRow, error)
}
