package processor

import (
	"context"
	"errors"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	tramites "ganadero-server/internal/tramites/processor"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTramiteService struct {
	mock.Mock
}

func (m *mockTramiteService) Tipos() map[string]tramites.TipoTramite {
	args := m.Called()
	return args.Get(0).(map[string]tramites.TipoTramite)
}

func (m *mockTramiteService) SeguimientoPorFolio(ctx context.Context, numero string) (tramites.Seguimiento, error) {
	args := m.Called(ctx, numero)
	return args.Get(0).(tramites.Seguimiento), args.Error(1)
}

func (m *mockTramiteService) Crear(ctx context.Context, params tramites.CreateParams) (store.Tramite, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(store.Tramite), args.Error(1)
}

func (m *mockTramiteService) ConsultarEstatusSanitario(ctx context.Context, uppID string) (tramites.EstatusSanitario, error) {
	args := m.Called(ctx, uppID)
	return args.Get(0).(tramites.EstatusSanitario), args.Error(1)
}

type mockGanadoService struct {
	mock.Mock
}

func (m *mockGanadoService) List(ctx context.Context) ([]store.Ganado, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.Ganado), args.Error(1)
}

type mockInventarioService struct {
	mock.Mock
}

func (m *mockInventarioService) StockBajo(ctx context.Context, limite int) ([]store.InventarioItem, error) {
	args := m.Called(ctx, limite)
	return args.Get(0).([]store.InventarioItem), args.Error(1)
}

func newTestDispatcher() (*ToolDispatcher, *mockTramiteService, *mockGanadoService, *mockInventarioService) {
	tramiteSvc := &mockTramiteService{}
	ganadoSvc := &mockGanadoService{}
	inventarioSvc := &mockInventarioService{}
	d := NewToolDispatcher(tramiteSvc, ganadoSvc, inventarioSvc, observability.NewLogger())
	return d, tramiteSvc, ganadoSvc, inventarioSvc
}

func TestDispatch_UnknownTool(t *testing.T) {
	d, _, _, _ := newTestDispatcher()

	result := d.Dispatch(context.Background(), "funcionInventada", "{}")

	assert.Equal(t, map[string]string{"error": "Función no implementada"}, result)
}

func TestDispatch_MalformedArguments(t *testing.T) {
	d, _, _, _ := newTestDispatcher()

	result := d.Dispatch(context.Background(), ToolConsultarTramite, `{"tramite_id": `)

	assert.Equal(t, map[string]string{"error": "Argumentos inválidos"}, result)
}

func TestDispatch_TramiteNotFoundIsResultNotError(t *testing.T) {
	d, tramiteSvc, _, _ := newTestDispatcher()
	tramiteSvc.On("SeguimientoPorFolio", mock.Anything, "TRM-2026-999").
		Return(tramites.Seguimiento{}, store.ErrNotFound)

	result := d.Dispatch(context.Background(), ToolConsultarTramite, `{"tramite_id":"TRM-2026-999"}`)

	assert.Equal(t, map[string]string{"error": "Trámite no encontrado"}, result)
	tramiteSvc.AssertExpectations(t)
}

func TestDispatch_ServiceErrorBecomesErrorPayload(t *testing.T) {
	d, tramiteSvc, _, _ := newTestDispatcher()
	tramiteSvc.On("SeguimientoPorFolio", mock.Anything, "TRM-2026-001").
		Return(tramites.Seguimiento{}, errors.New("db down"))

	result := d.Dispatch(context.Background(), ToolConsultarTramite, `{"tramite_id":"TRM-2026-001"}`)

	assert.Equal(t, map[string]string{"error": "db down"}, result)
}

func TestDispatch_CrearTramiteUsesSystemUser(t *testing.T) {
	d, tramiteSvc, _, _ := newTestDispatcher()
	tramiteSvc.On("Crear", mock.Anything, mock.MatchedBy(func(params tramites.CreateParams) bool {
		return params.UsuarioID == "SISTEMA_CHATBOT" &&
			params.Tipo == store.TramiteTipoMovilizacion &&
			params.UppID == "123456789012"
	})).Return(store.Tramite{NumeroTramite: "TRM-2026-042"}, nil)

	result := d.Dispatch(context.Background(), ToolCrearTramite,
		`{"tipo":"MOVILIZACION","uppId":"123456789012"}`)

	tramite, ok := result.(store.Tramite)
	require.True(t, ok)
	assert.Equal(t, "TRM-2026-042", tramite.NumeroTramite)
	tramiteSvc.AssertExpectations(t)
}

func TestDispatch_ConsultarGanado(t *testing.T) {
	d, _, ganadoSvc, _ := newTestDispatcher()
	ganadoSvc.On("List", mock.Anything).Return([]store.Ganado{{Arete: "MX-001"}}, nil)

	result := d.Dispatch(context.Background(), ToolConsultarGanado, "")

	animales, ok := result.([]store.Ganado)
	require.True(t, ok)
	require.Len(t, animales, 1)
	assert.Equal(t, "MX-001", animales[0].Arete)
}

func TestDispatch_ConsultarInventario(t *testing.T) {
	d, _, _, inventarioSvc := newTestDispatcher()
	inventarioSvc.On("StockBajo", mock.Anything, 0).Return([]store.InventarioItem{}, nil)

	result := d.Dispatch(context.Background(), ToolConsultarInventario, "{}")

	items, ok := result.([]store.InventarioItem)
	require.True(t, ok)
	assert.Empty(t, items)
	inventarioSvc.AssertExpectations(t)
}
