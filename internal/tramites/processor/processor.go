package processor

import (
	"context"
	"errors"
	"fmt"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTipoInvalido   = errors.New("tipo de trámite no válido")
	ErrEstadoInvalido = errors.New("estado no válido")
	ErrEtapaInvalida  = errors.New("etapa inválida")
	ErrUltimaEtapa    = errors.New("trámite en última etapa")
)

// Etapa is one step of a trámite workflow.
type Etapa struct {
	Orden       int    `json:"orden"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

// TipoTramite describes one trámite workflow and its ordered stages.
type TipoTramite struct {
	Nombre string  `json:"nombre"`
	Etapas []Etapa `json:"etapas"`
}

// Catalog of trámite workflows. Stage order is the workflow: a trámite starts
// at orden 1 and is COMPLETADO when it reaches the last stage.
var tipoCatalog = map[string]TipoTramite{
	store.TramiteTipoPruebasGanado: {
		Nombre: "Pruebas de Ganado",
		Etapas: []Etapa{
			{Orden: 1, Nombre: "Solicitud Recibida", Descripcion: "Trámite registrado en el sistema"},
			{Orden: 2, Nombre: "Programación de Visita", Descripcion: "Agendando fecha para toma de muestras"},
			{Orden: 3, Nombre: "Toma de Muestras", Descripcion: "Veterinario tomando muestras del ganado"},
			{Orden: 4, Nombre: "Muestras en Laboratorio", Descripcion: "Análisis en proceso"},
			{Orden: 5, Nombre: "Resultados Disponibles", Descripcion: "Resultados listos para consulta"},
			{Orden: 6, Nombre: "Finalizado", Descripcion: "Trámite completado"},
		},
	},
	store.TramiteTipoMovilizacion: {
		Nombre: "Trámite de Movilización",
		Etapas: []Etapa{
			{Orden: 1, Nombre: "Solicitud Recibida", Descripcion: "Solicitud registrada"},
			{Orden: 2, Nombre: "Revisión Documental", Descripcion: "Verificando documentación requerida"},
			{Orden: 3, Nombre: "Inspección Sanitaria", Descripcion: "Verificación del estado sanitario del ganado"},
			{Orden: 4, Nombre: "Aprobación Pendiente", Descripcion: "En revisión por autoridad competente"},
			{Orden: 5, Nombre: "Guía Emitida", Descripcion: "Guía de movilización generada"},
			{Orden: 6, Nombre: "Finalizado", Descripcion: "Trámite completado"},
		},
	},
	store.TramiteTipoExportacion: {
		Nombre: "Trámite de Exportación",
		Etapas: []Etapa{
			{Orden: 1, Nombre: "Solicitud Recibida", Descripcion: "Solicitud registrada"},
			{Orden: 2, Nombre: "Revisión Documental", Descripcion: "Verificando documentación internacional"},
			{Orden: 3, Nombre: "Certificaciones Sanitarias", Descripcion: "Obteniendo certificados requeridos"},
			{Orden: 4, Nombre: "Inspección Aduanal", Descripcion: "Verificación por autoridades aduanales"},
			{Orden: 5, Nombre: "Aprobación SENASA", Descripcion: "Aprobación del servicio sanitario"},
			{Orden: 6, Nombre: "Documentación Lista", Descripcion: "Documentos de exportación generados"},
			{Orden: 7, Nombre: "Finalizado", Descripcion: "Trámite completado"},
		},
	},
}

var estadosValidos = map[string]bool{
	store.TramiteEstadoPendiente:  true,
	store.TramiteEstadoEnProceso:  true,
	store.TramiteEstadoCompletado: true,
	store.TramiteEstadoCancelado:  true,
}

type TramitesProcessor struct {
	store  Store
	logger *observability.Logger
}

func New(store Store, logger *observability.Logger) TramitesProcessor {
	return TramitesProcessor{
		store:  store,
		logger: logger,
	}
}

// Tipos returns the full workflow catalog.
func (p *TramitesProcessor) Tipos() map[string]TipoTramite {
	return tipoCatalog
}

func (p *TramitesProcessor) List(ctx context.Context, filters store.TramiteFilters) ([]store.Tramite, error) {
	return p.store.ListTramites(ctx, filters)
}

func (p *TramitesProcessor) Get(ctx context.Context, id uuid.UUID) (store.Tramite, error) {
	return p.store.GetTramiteByID(ctx, id)
}

// CreateParams are the caller-supplied fields of a new trámite.
type CreateParams struct {
	Tipo          string
	UsuarioID     string
	UppID         string
	GanadoIDs     []interface{}
	Observaciones string
	Documentos    []interface{}
}

// Crear registers a new trámite at stage 1 with a fresh folio and a seeded
// history entry.
func (p *TramitesProcessor) Crear(ctx context.Context, params CreateParams) (store.Tramite, error) {
	info, ok := tipoCatalog[params.Tipo]
	if !ok {
		return store.Tramite{}, ErrTipoInvalido
	}

	now := time.Now().UTC()
	tramite := store.Tramite{
		NumeroTramite:  fmt.Sprintf("TRM-%d-%03d", now.Year(), rand.Intn(1000)),
		Tipo:           params.Tipo,
		UsuarioID:      params.UsuarioID,
		UppID:          params.UppID,
		Estado:         store.TramiteEstadoPendiente,
		EtapaActual:    1,
		FechaSolicitud: now,
		Observaciones:  params.Observaciones,
		GanadoIDs:      params.GanadoIDs,
		Documentos:     params.Documentos,
		Historial: store.JSONBArray{
			map[string]interface{}{
				"etapa":         1,
				"nombre":        info.Etapas[0].Nombre,
				"fecha_inicio":  now.Format(time.RFC3339),
				"responsable":   "Sistema",
				"observaciones": "Trámite creado",
			},
		},
	}

	created, err := p.store.CreateTramite(ctx, tramite)
	if err != nil {
		return store.Tramite{}, fmt.Errorf("failed to create tramite: %w", err)
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "numero_tramite", Value: created.NumeroTramite})
	p.logger.Info(ctx, "Tramite created")
	return created, nil
}

// Seguimiento is the tracking view of a trámite: where it is and what comes next.
type Seguimiento struct {
	TramiteID     uuid.UUID        `json:"tramite_id"`
	NumeroTramite string           `json:"numero_tramite"`
	Tipo          string           `json:"tipo"`
	EstadoActual  string           `json:"estado_actual"`
	EtapaActual   int              `json:"etapa_actual"`
	Historial     store.JSONBArray `json:"historial"`
	ProximaEtapa  *Etapa           `json:"proxima_etapa"`
}

func (p *TramitesProcessor) Seguimiento(ctx context.Context, id uuid.UUID) (Seguimiento, error) {
	tramite, err := p.store.GetTramiteByID(ctx, id)
	if err != nil {
		return Seguimiento{}, err
	}
	return buildSeguimiento(tramite), nil
}

// SeguimientoPorFolio looks a trámite up by its human-facing folio
// (e.g. TRM-2026-001); this is what callers quote over the phone.
func (p *TramitesProcessor) SeguimientoPorFolio(ctx context.Context, numero string) (Seguimiento, error) {
	tramite, err := p.store.GetTramiteByNumero(ctx, numero)
	if err != nil {
		return Seguimiento{}, err
	}
	return buildSeguimiento(tramite), nil
}

func buildSeguimiento(t store.Tramite) Seguimiento {
	seguimiento := Seguimiento{
		TramiteID:     t.ID,
		NumeroTramite: t.NumeroTramite,
		Tipo:          t.Tipo,
		EstadoActual:  t.Estado,
		EtapaActual:   t.EtapaActual,
		Historial:     t.Historial,
	}
	if info, ok := tipoCatalog[t.Tipo]; ok {
		for i := range info.Etapas {
			if info.Etapas[i].Orden == t.EtapaActual+1 {
				seguimiento.ProximaEtapa = &info.Etapas[i]
				break
			}
		}
	}
	return seguimiento
}

// AvanceResult reports a stage advancement.
type AvanceResult struct {
	EtapaAnterior  int                    `json:"etapa_anterior"`
	EtapaActual    int                    `json:"etapa_actual"`
	NuevoHistorial map[string]interface{} `json:"nuevo_historial"`
}

// AvanzarEtapa moves a trámite to its next stage; reaching the last stage
// marks it COMPLETADO, otherwise EN_PROCESO.
func (p *TramitesProcessor) AvanzarEtapa(ctx context.Context, id uuid.UUID, responsable, observaciones string) (AvanceResult, error) {
	tramite, err := p.store.GetTramiteByID(ctx, id)
	if err != nil {
		return AvanceResult{}, err
	}

	info, ok := tipoCatalog[tramite.Tipo]
	if !ok {
		return AvanceResult{}, ErrTipoInvalido
	}

	siguiente := tramite.EtapaActual + 1
	if siguiente > len(info.Etapas) {
		return AvanceResult{}, ErrUltimaEtapa
	}

	if responsable == "" {
		responsable = "Sistema"
	}
	historyItem := store.JSONB{
		"etapa":         siguiente,
		"nombre":        info.Etapas[siguiente-1].Nombre,
		"fecha_inicio":  time.Now().UTC().Format(time.RFC3339),
		"responsable":   responsable,
		"observaciones": observaciones,
	}

	estado := store.TramiteEstadoEnProceso
	if siguiente == len(info.Etapas) {
		estado = store.TramiteEstadoCompletado
	}

	if err := p.store.UpdateTramiteEtapa(ctx, id, siguiente, estado, historyItem); err != nil {
		return AvanceResult{}, err
	}

	return AvanceResult{
		EtapaAnterior:  tramite.EtapaActual,
		EtapaActual:    siguiente,
		NuevoHistorial: historyItem,
	}, nil
}

// ActualizarEtapa sets the stage explicitly (manual correction), validating
// the stage number against the workflow of the trámite's tipo.
func (p *TramitesProcessor) ActualizarEtapa(ctx context.Context, id uuid.UUID, etapa int, responsable, observaciones string) error {
	tramite, err := p.store.GetTramiteByID(ctx, id)
	if err != nil {
		return err
	}

	info, ok := tipoCatalog[tramite.Tipo]
	if !ok {
		return ErrTipoInvalido
	}
	if etapa < 1 || etapa > len(info.Etapas) {
		return ErrEtapaInvalida
	}

	if responsable == "" {
		responsable = "Admin"
	}
	historyItem := store.JSONB{
		"etapa":               etapa,
		"nombre":              info.Etapas[etapa-1].Nombre,
		"fecha_actualizacion": time.Now().UTC().Format(time.RFC3339),
		"responsable":         responsable,
		"observaciones":       observaciones,
	}

	return p.store.UpdateTramiteEtapa(ctx, id, etapa, tramite.Estado, historyItem)
}

// ActualizarEstado changes the lifecycle state, recording the reason in the
// history.
func (p *TramitesProcessor) ActualizarEstado(ctx context.Context, id uuid.UUID, estado, motivo string) error {
	if !estadosValidos[estado] {
		return ErrEstadoInvalido
	}

	historyItem := store.JSONB{
		"tipo":         "CAMBIO_ESTADO",
		"nuevo_estado": estado,
		"motivo":       motivo,
		"fecha":        time.Now().UTC().Format(time.RFC3339),
	}
	return p.store.UpdateTramiteEstado(ctx, id, estado, historyItem)
}

// Cancelar marks the trámite CANCELADO; the record and its history are kept.
func (p *TramitesProcessor) Cancelar(ctx context.Context, id uuid.UUID, motivo string) error {
	if motivo == "" {
		motivo = "Cancelación usuario"
	}
	return p.ActualizarEstado(ctx, id, store.TramiteEstadoCancelado, motivo)
}

func (p *TramitesProcessor) AgregarObservacion(ctx context.Context, id uuid.UUID, observacion, usuario string) (store.JSONB, error) {
	obs := store.JSONB{
		"observacion": observacion,
		"usuario":     usuario,
		"fecha":       time.Now().UTC().Format(time.RFC3339),
	}
	if err := p.store.AppendTramiteObservacion(ctx, id, obs); err != nil {
		return nil, err
	}
	return obs, nil
}

func (p *TramitesProcessor) AgregarDocumento(ctx context.Context, id uuid.UUID, nombre, tipo, url string) (store.JSONB, error) {
	doc := store.JSONB{
		"nombre":       nombre,
		"tipo":         tipo,
		"url":          url,
		"fecha_subida": time.Now().UTC().Format(time.RFC3339),
	}
	if err := p.store.AppendTramiteDocumento(ctx, id, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (p *TramitesProcessor) Documentos(ctx context.Context, id uuid.UUID) (store.JSONBArray, error) {
	tramite, err := p.store.GetTramiteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return tramite.Documentos, nil
}

func (p *TramitesProcessor) PorUsuario(ctx context.Context, usuarioID, estado string) ([]store.Tramite, error) {
	return p.store.ListTramites(ctx, store.TramiteFilters{UsuarioID: usuarioID, Estado: estado})
}

// Stats aggregates trámite counts by tipo and estado.
type Stats struct {
	TotalTramites int            `json:"total_tramites"`
	PorTipo       map[string]int `json:"por_tipo"`
	PorEstado     map[string]int `json:"por_estado"`
}

func (p *TramitesProcessor) Stats(ctx context.Context) (Stats, error) {
	rows, err := p.store.GetTramiteStats(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		PorTipo:   map[string]int{},
		PorEstado: map[string]int{},
	}
	for _, row := range rows {
		stats.TotalTramites += row.Total
		stats.PorTipo[row.Tipo] += row.Total
		stats.PorEstado[row.Estado] += row.Total
	}
	return stats, nil
}

// EstatusSanitario reports whether a UPP has current sanitary test coverage.
type EstatusSanitario struct {
	Upp          string `json:"upp"`
	Vigente      bool   `json:"vigente"`
	TotalPruebas int    `json:"total_pruebas"`
}

// ConsultarEstatusSanitario checks for completed sanitary-test trámites; a UPP
// with none cannot movilize or export.
func (p *TramitesProcessor) ConsultarEstatusSanitario(ctx context.Context, uppID string) (EstatusSanitario, error) {
	pruebas, err := p.store.ListTramites(ctx, store.TramiteFilters{
		Tipo:   store.TramiteTipoPruebasGanado,
		Estado: store.TramiteEstadoCompletado,
	})
	if err != nil {
		return EstatusSanitario{}, err
	}

	return EstatusSanitario{
		Upp:          uppID,
		Vigente:      len(pruebas) > 0,
		TotalPruebas: len(pruebas),
	}, nil
}
