package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	tramites "ganadero-server/internal/tramites/processor"
)

// TramiteService is the trámite surface the dispatcher exposes to the model.
type TramiteService interface {
	Tipos() map[string]tramites.TipoTramite
	SeguimientoPorFolio(ctx context.Context, numero string) (tramites.Seguimiento, error)
	Crear(ctx context.Context, params tramites.CreateParams) (store.Tramite, error)
	ConsultarEstatusSanitario(ctx context.Context, uppID string) (tramites.EstatusSanitario, error)
}

// GanadoService lists registered livestock.
type GanadoService interface {
	List(ctx context.Context) ([]store.Ganado, error)
}

// InventarioService reports low-stock supplies.
type InventarioService interface {
	StockBajo(ctx context.Context, limite int) ([]store.InventarioItem, error)
}

// ToolDispatcher maps tool names to domain operations. The mapping is closed:
// the model may hallucinate a name, and gets a plain "not implemented" result
// instead of a dead turn. Domain errors likewise come back as {error} payloads
// the model can explain to the user.
type ToolDispatcher struct {
	tramites   TramiteService
	ganado     GanadoService
	inventario InventarioService
	logger     *observability.Logger
}

func NewToolDispatcher(tramites TramiteService, ganado GanadoService, inventario InventarioService,
	logger *observability.Logger) *ToolDispatcher {
	return &ToolDispatcher{
		tramites:   tramites,
		ganado:     ganado,
		inventario: inventario,
		logger:     logger,
	}
}

type toolArgs struct {
	TramiteID     string `json:"tramite_id"`
	Tipo          string `json:"tipo"`
	UppID         string `json:"uppId"`
	Observaciones string `json:"observaciones"`
}

// Dispatch executes one tool call. rawArgs is the accumulated argument text
// from the stream; it may be malformed, which is that call's failure alone.
func (d *ToolDispatcher) Dispatch(ctx context.Context, name, rawArgs string) interface{} {
	var args toolArgs
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			d.logger.Warn(ctx, fmt.Sprintf("malformed arguments for tool %s: %v", name, err))
			return map[string]string{"error": "Argumentos inválidos"}
		}
	}

	result, err := d.call(ctx, name, args)
	if err != nil {
		d.logger.Warn(ctx, fmt.Sprintf("tool %s failed: %v", name, err))
		return map[string]string{"error": err.Error()}
	}
	return result
}

func (d *ToolDispatcher) call(ctx context.Context, name string, args toolArgs) (interface{}, error) {
	switch name {
	case ToolObtenerTiposTramites:
		return d.tramites.Tipos(), nil

	case ToolConsultarTramite:
		seguimiento, err := d.tramites.SeguimientoPorFolio(ctx, args.TramiteID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return map[string]string{"error": "Trámite no encontrado"}, nil
			}
			return nil, err
		}
		return seguimiento, nil

	case ToolCrearTramite:
		return d.tramites.Crear(ctx, tramites.CreateParams{
			Tipo:          args.Tipo,
			UppID:         args.UppID,
			UsuarioID:     "SISTEMA_CHATBOT",
			Observaciones: args.Observaciones,
		})

	case ToolConsultarEstatusSanitario:
		return d.tramites.ConsultarEstatusSanitario(ctx, args.UppID)

	case ToolConsultarGanado:
		return d.ganado.List(ctx)

	case ToolConsultarInventario:
		return d.inventario.StockBajo(ctx, 0)

	default:
		return map[string]string{"error": "Función no implementada"}, nil
	}
}
