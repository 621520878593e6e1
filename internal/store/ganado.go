package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Ganado struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Arete           string    `db:"arete" json:"arete"`
	Nombre          string    `db:"nombre" json:"nombre"`
	Raza            string    `db:"raza" json:"raza"`
	Sexo            string    `db:"sexo" json:"sexo"`
	PesoKg          float64   `db:"peso_kg" json:"peso_kg"`
	FechaNacimiento string    `db:"fecha_nacimiento" json:"fecha_nacimiento"`
	UppID           string    `db:"upp_id" json:"upp_id"`
	EstadoSalud     string    `db:"estado_salud" json:"estado_salud"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

const sqlListGanado = `
SELECT * FROM ganado ORDER BY created_at DESC`

func (s *Store) ListGanado(ctx context.Context) ([]Ganado, error) {
	var animales []Ganado
	err := s.db.SelectContext(ctx, &animales, sqlListGanado)
	if err != nil {
		s.logger.Error(ctx, "failed to list ganado", err)
		return nil, fmt.Errorf("failed to list ganado: %w", err)
	}
	return animales, nil
}

const sqlGetGanadoByID = `
SELECT * FROM ganado WHERE id = $1`

func (s *Store) GetGanadoByID(ctx context.Context, id uuid.UUID) (Ganado, error) {
	var animal Ganado
	err := s.db.GetContext(ctx, &animal, sqlGetGanadoByID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Ganado{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get ganado by ID", err)
		return Ganado{}, fmt.Errorf("failed to get ganado by ID: %w", err)
	}
	return animal, nil
}

const sqlCreateGanado = `
INSERT INTO ganado (arete, nombre, raza, sexo, peso_kg, fecha_nacimiento, upp_id, estado_salud, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
RETURNING *`

func (s *Store) CreateGanado(ctx context.Context, g Ganado) (Ganado, error) {
	var created Ganado
	err := s.db.GetContext(ctx, &created, sqlCreateGanado,
		g.Arete, g.Nombre, g.Raza, g.Sexo, g.PesoKg, g.FechaNacimiento, g.UppID, g.EstadoSalud)
	if err != nil {
		s.logger.Error(ctx, "failed to create ganado", err)
		return Ganado{}, fmt.Errorf("failed to create ganado: %w", err)
	}
	return created, nil
}

const sqlUpdateGanado = `
UPDATE ganado
SET arete = $2, nombre = $3, raza = $4, sexo = $5, peso_kg = $6, fecha_nacimiento = $7,
    upp_id = $8, estado_salud = $9, updated_at = NOW()
WHERE id = $1
RETURNING *`

func (s *Store) UpdateGanado(ctx context.Context, g Ganado) (Ganado, error) {
	var updated Ganado
	err := s.db.GetContext(ctx, &updated, sqlUpdateGanado,
		g.ID, g.Arete, g.Nombre, g.Raza, g.Sexo, g.PesoKg, g.FechaNacimiento, g.UppID, g.EstadoSalud)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Ganado{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update ganado", err)
		return Ganado{}, fmt.Errorf("failed to update ganado: %w", err)
	}
	return updated, nil
}

const sqlDeleteGanado = `
DELETE FROM ganado WHERE id = $1`

func (s *Store) DeleteGanado(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, sqlDeleteGanado, id)
	if err != nil {
		s.logger.Error(ctx, "failed to delete ganado", err)
		return fmt.Errorf("failed to delete ganado: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}
