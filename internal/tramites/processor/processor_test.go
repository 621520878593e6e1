package processor

import (
	"context"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateTramite(ctx context.Context, t store.Tramite) (store.Tramite, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(store.Tramite), args.Error(1)
}

func (m *mockStore) GetTramiteByID(ctx context.Context, id uuid.UUID) (store.Tramite, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.Tramite), args.Error(1)
}

func (m *mockStore) GetTramiteByNumero(ctx context.Context, numero string) (store.Tramite, error) {
	args := m.Called(ctx, numero)
	return args.Get(0).(store.Tramite), args.Error(1)
}

func (m *mockStore) ListTramites(ctx context.Context, filters store.TramiteFilters) ([]store.Tramite, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]store.Tramite), args.Error(1)
}

func (m *mockStore) UpdateTramiteEtapa(ctx context.Context, id uuid.UUID, etapa int, estado string, historyItem store.JSONB) error {
	args := m.Called(ctx, id, etapa, estado, historyItem)
	return args.Error(0)
}

func (m *mockStore) UpdateTramiteEstado(ctx context.Context, id uuid.UUID, estado string, historyItem store.JSONB) error {
	args := m.Called(ctx, id, estado, historyItem)
	return args.Error(0)
}

func (m *mockStore) AppendTramiteObservacion(ctx context.Context, id uuid.UUID, observacion store.JSONB) error {
	args := m.Called(ctx, id, observacion)
	return args.Error(0)
}

func (m *mockStore) AppendTramiteDocumento(ctx context.Context, id uuid.UUID, documento store.JSONB) error {
	args := m.Called(ctx, id, documento)
	return args.Error(0)
}

func (m *mockStore) GetTramiteStats(ctx context.Context) ([]store.TramiteStatRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.TramiteStatRow), args.Error(1)
}

func TestCrear_TipoInvalido(t *testing.T) {
	s := new(mockStore)
	p := New(s, observability.NewLogger())

	_, err := p.Crear(context.Background(), CreateParams{Tipo: "ADOPCION", UsuarioID: "u1"})
	assert.ErrorIs(t, err, ErrTipoInvalido)
	s.AssertNotCalled(t, "CreateTramite")
}

func TestCrear_SeedsFirstStage(t *testing.T) {
	s := new(mockStore)
	p := New(s, observability.NewLogger())

	s.On("CreateTramite", mock.Anything, mock.MatchedBy(func(tr store.Tramite) bool {
		return tr.Tipo == store.TramiteTipoMovilizacion &&
			tr.Estado == store.TramiteEstadoPendiente &&
			tr.EtapaActual == 1 &&
			len(tr.Historial) == 1
	})).Return(store.Tramite{ID: uuid.New(), NumeroTramite: "TRM-2026-042"}, nil)

	created, err := p.Crear(context.Background(), CreateParams{
		Tipo:      store.TramiteTipoMovilizacion,
		UsuarioID: "u1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "TRM-2026-042", created.NumeroTramite)
	s.AssertExpectations(t)
}

func TestAvanzarEtapa_IntermediateStage(t *testing.T) {
	s := new(mockStore)
	p := New(s, observability.NewLogger())
	id := uuid.New()

	s.On("GetTramiteByID", mock.Anything, id).Return(store.Tramite{
		ID:          id,
		Tipo:        store.TramiteTipoPruebasGanado,
		Estado:      store.TramiteEstadoEnProceso,
		EtapaActual: 3,
	}, nil)
	s.On("UpdateTramiteEtapa", mock.Anything, id, 4, store.TramiteEstadoEnProceso, mock.Anything).Return(nil)

	avance, err := p.AvanzarEtapa(context.Background(), id, "Dr. Ramírez", "muestras enviadas")
	assert.NoError(t, err)
	assert.Equal(t, 3, avance.EtapaAnterior)
	assert.Equal(t, 4, avance.EtapaActual)
	assert.Equal(t, "Muestras en Laboratorio", avance.NuevoHistorial["nombre"])
	s.AssertExpectations(t)
}

func TestAvanzarEtapa_FinalStageCompletes(t *testing.T) {
	s := new(mockStore)
	p := New(s, observability.NewLogger())
	id := uuid.New()

	// PRUEBAS_GANADO has 6 stages; advancing from 5 lands on the last.
	s.On("GetTramiteByID", mock.Anything, id).Return(store.Tramite{
		ID:          id,
		Tipo:        store.TramiteTipoPruebasGanado,
		EtapaActual: 5,
	}, nil)
	s.On("UpdateTramiteEtapa", mock.Anything, id, 6, store.TramiteEstadoCompletado, mock.Anything).Return(nil)

	avance, err := p.AvanzarEtapa(context.Background(), id, "", "")
	assert.NoError(t, err)
	assert.Equal(t, 6, avance.EtapaActual)
	s.AssertExpectations(t)
}

func TestAvanzarEtapa_PastLastStage(t *testing.T) {
	s := new(mockStore)
	p := New(s, observability.NewLogger())
	id := uuid.New()

	s.On("GetTramiteByID", mock.Anything, id).Return(store.Tramite{
		ID:          id,
		Tipo:        store.TramiteTipoExportacion,
		EtapaActual: 7,
	}, nil)

	_, err := p.AvanzarEtapa(context.Background(), id, "", "")
	assert.ErrorIs(t, err, ErrUltimaEtapa)
	s.AssertNotCalled(t, "UpdateTramiteEtapa")
}

func TestActualizarEtapa_OutOfRange(t *testing.T) {
	s := new(mockStore)
	p := New(s, observability.NewLogger())
	id := uuid.New()

	s.On("GetTramiteByID", mock.Anything, id).Return(store.Tramite{
		ID:          id,
		Tipo:        store.TramiteTipoMovilizacion,
		EtapaActual: 2,
	}, nil)

	err := p.ActualizarEtapa(context.Background(), id, 9, "Admin", "")
	assert.ErrorIs(t, err, ErrEtapaInvalida)
}

func TestActualizarEstado_Invalido(t *testing.T) {
	s := new(mockStore)
	p := New(s, observability.NewLogger())

	err := p.ActualizarEstado(context.Background(), uuid.New(), "ARCHIVADO", "")
	assert.ErrorIs(t, err, ErrEstadoInvalido)
}

func TestConsultarEstatusSanitario(t *testing.T) {
	s := new(mockStore)
	p := New(s, observability.NewLogger())

	s.On("ListTramites", mock.Anything, store.TramiteFilters{
		Tipo:   store.TramiteTipoPruebasGanado,
		Estado: store.TramiteEstadoCompletado,
	}).Return([]store.Tramite{{}, {}}, nil)

	estatus, err := p.ConsultarEstatusSanitario(context.Background(), "123456789012")
	assert.NoError(t, err)
	assert.True(t, estatus.Vigente)
	assert.Equal(t, 2, estatus.TotalPruebas)
}

func TestStats_Aggregation(t *testing.T) {
	s := new(mockStore)
	p := New(s, observability.NewLogger())

	s.On("GetTramiteStats", mock.Anything).Return([]store.TramiteStatRow{
		{Tipo: store.TramiteTipoMovilizacion, Estado: store.TramiteEstadoPendiente, Total: 3},
		{Tipo: store.TramiteTipoMovilizacion, Estado: store.TramiteEstadoCompletado, Total: 2},
		{Tipo: store.TramiteTipoExportacion, Estado: store.TramiteEstadoPendiente, Total: 1},
	}, nil)

	stats, err := p.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 6, stats.TotalTramites)
	assert.Equal(t, 5, stats.PorTipo[store.TramiteTipoMovilizacion])
	assert.Equal(t, 4, stats.PorEstado[store.TramiteEstadoPendiente])
}
