package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tramite tipos
const (
	TramiteTipoPruebasGanado = "PRUEBAS_GANADO"
	TramiteTipoMovilizacion  = "MOVILIZACION"
	TramiteTipoExportacion   = "EXPORTACION"
)

// Tramite estados
const (
	TramiteEstadoPendiente  = "PENDIENTE"
	TramiteEstadoEnProceso  = "EN_PROCESO"
	TramiteEstadoCompletado = "COMPLETADO"
	TramiteEstadoCancelado  = "CANCELADO"
)

type Tramite struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	NumeroTramite     string     `db:"numero_tramite" json:"numero_tramite"`
	Tipo              string     `db:"tipo" json:"tipo"`
	UsuarioID         string     `db:"usuario_id" json:"usuario_id"`
	UppID             string     `db:"upp_id" json:"upp_id"`
	Estado            string     `db:"estado" json:"estado"`
	EtapaActual       int        `db:"etapa_actual" json:"etapa_actual"`
	FechaSolicitud    time.Time  `db:"fecha_solicitud" json:"fecha_solicitud"`
	Observaciones     string     `db:"observaciones" json:"observaciones"`
	GanadoIDs         JSONBArray `db:"ganado_ids" json:"ganado_ids"`
	Documentos        JSONBArray `db:"documentos" json:"documentos"`
	Historial         JSONBArray `db:"historial" json:"historial"`
	ObservacionesList JSONBArray `db:"observaciones_list" json:"observaciones_list"`
}

// TramiteFilters narrows ListTramites results; zero values mean "any".
type TramiteFilters struct {
	Tipo      string
	Estado    string
	UsuarioID string
}

// TramiteStatRow is one (tipo, estado) bucket of the stats aggregation.
type TramiteStatRow struct {
	Tipo   string `db:"tipo"`
	Estado string `db:"estado"`
	Total  int    `db:"total"`
}

const sqlCreateTramite = `
INSERT INTO tramites (numero_tramite, tipo, usuario_id, upp_id, estado, etapa_actual, fecha_solicitud,
                      observaciones, ganado_ids, documentos, historial, observaciones_list)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, '[]'::jsonb)
RETURNING *`

func (s *Store) CreateTramite(ctx context.Context, t Tramite) (Tramite, error) {
	var created Tramite
	err := s.db.GetContext(ctx, &created, sqlCreateTramite,
		t.NumeroTramite, t.Tipo, t.UsuarioID, t.UppID, t.Estado, t.EtapaActual, t.FechaSolicitud,
		t.Observaciones, t.GanadoIDs, t.Documentos, t.Historial)
	if err != nil {
		s.logger.Error(ctx, "failed to create tramite", err)
		return Tramite{}, fmt.Errorf("failed to create tramite: %w", err)
	}
	return created, nil
}

const sqlGetTramiteByID = `
SELECT * FROM tramites WHERE id = $1`

func (s *Store) GetTramiteByID(ctx context.Context, id uuid.UUID) (Tramite, error) {
	var tramite Tramite
	err := s.db.GetContext(ctx, &tramite, sqlGetTramiteByID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tramite{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get tramite by ID", err)
		return Tramite{}, fmt.Errorf("failed to get tramite by ID: %w", err)
	}
	return tramite, nil
}

const sqlGetTramiteByNumero = `
SELECT * FROM tramites WHERE numero_tramite = $1`

func (s *Store) GetTramiteByNumero(ctx context.Context, numero string) (Tramite, error) {
	var tramite Tramite
	err := s.db.GetContext(ctx, &tramite, sqlGetTramiteByNumero, numero)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tramite{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get tramite by numero", err)
		return Tramite{}, fmt.Errorf("failed to get tramite by numero: %w", err)
	}
	return tramite, nil
}

func (s *Store) ListTramites(ctx context.Context, filters TramiteFilters) ([]Tramite, error) {
	query := `SELECT * FROM tramites WHERE 1=1`
	args := []interface{}{}

	if filters.Tipo != "" {
		args = append(args, filters.Tipo)
		query += fmt.Sprintf(" AND tipo = $%d", len(args))
	}
	if filters.Estado != "" {
		args = append(args, filters.Estado)
		query += fmt.Sprintf(" AND estado = $%d", len(args))
	}
	if filters.UsuarioID != "" {
		args = append(args, filters.UsuarioID)
		query += fmt.Sprintf(" AND usuario_id = $%d", len(args))
	}
	query += " ORDER BY fecha_solicitud DESC"

	var tramites []Tramite
	err := s.db.SelectContext(ctx, &tramites, query, args...)
	if err != nil {
		s.logger.Error(ctx, "failed to list tramites", err)
		return nil, fmt.Errorf("failed to list tramites: %w", err)
	}
	return tramites, nil
}

const sqlUpdateTramiteEtapa = `
UPDATE tramites
SET etapa_actual = $2, estado = $3, historial = historial || $4::jsonb
WHERE id = $1`

func (s *Store) UpdateTramiteEtapa(ctx context.Context, id uuid.UUID, etapa int, estado string,
	historyItem JSONB) error {
	result, err := s.db.ExecContext(ctx, sqlUpdateTramiteEtapa, id, etapa, estado, historyItem)
	if err != nil {
		s.logger.Error(ctx, "failed to update tramite etapa", err)
		return fmt.Errorf("failed to update tramite etapa: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlUpdateTramiteEstado = `
UPDATE tramites
SET estado = $2, historial = historial || $3::jsonb
WHERE id = $1`

func (s *Store) UpdateTramiteEstado(ctx context.Context, id uuid.UUID, estado string, historyItem JSONB) error {
	result, err := s.db.ExecContext(ctx, sqlUpdateTramiteEstado, id, estado, historyItem)
	if err != nil {
		s.logger.Error(ctx, "failed to update tramite estado", err)
		return fmt.Errorf("failed to update tramite estado: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlAppendTramiteObservacion = `
UPDATE tramites SET observaciones_list = observaciones_list || $2::jsonb WHERE id = $1`

func (s *Store) AppendTramiteObservacion(ctx context.Context, id uuid.UUID, observacion JSONB) error {
	result, err := s.db.ExecContext(ctx, sqlAppendTramiteObservacion, id, observacion)
	if err != nil {
		s.logger.Error(ctx, "failed to append tramite observacion", err)
		return fmt.Errorf("failed to append tramite observacion: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlAppendTramiteDocumento = `
UPDATE tramites SET documentos = documentos || $2::jsonb WHERE id = $1`

func (s *Store) AppendTramiteDocumento(ctx context.Context, id uuid.UUID, documento JSONB) error {
	result, err := s.db.ExecContext(ctx, sqlAppendTramiteDocumento, id, documento)
	if err != nil {
		s.logger.Error(ctx, "failed to append tramite documento", err)
		return fmt.Errorf("failed to append tramite documento: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlGetTramiteStats = `
SELECT tipo, estado, COUNT(*) AS total FROM tramites GROUP BY tipo, estado`

func (s *Store) GetTramiteStats(ctx context.Context) ([]TramiteStatRow, error) {
	var rows []TramiteStatRow
	err := s.db.SelectContext(ctx, &rows, sqlGetTramiteStats)
	if err != nil {
		s.logger.Error(ctx, "failed to get tramite stats", err)
		return nil, fmt.Errorf("failed to get tramite stats: %w", err)
	}
	return rows, nil
}
