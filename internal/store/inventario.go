package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type InventarioItem struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Nombre      string    `db:"nombre" json:"nombre"`
	Categoria   string    `db:"categoria" json:"categoria"`
	Cantidad    int       `db:"cantidad" json:"cantidad"`
	Unidad      string    `db:"unidad" json:"unidad"`
	StockMinimo int       `db:"stock_minimo" json:"stock_minimo"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

const sqlListInventario = `
SELECT * FROM inventario ORDER BY nombre ASC`

func (s *Store) ListInventario(ctx context.Context) ([]InventarioItem, error) {
	var items []InventarioItem
	err := s.db.SelectContext(ctx, &items, sqlListInventario)
	if err != nil {
		s.logger.Error(ctx, "failed to list inventario", err)
		return nil, fmt.Errorf("failed to list inventario: %w", err)
	}
	return items, nil
}

const sqlGetInventarioByID = `
SELECT * FROM inventario WHERE id = $1`

func (s *Store) GetInventarioByID(ctx context.Context, id uuid.UUID) (InventarioItem, error) {
	var item InventarioItem
	err := s.db.GetContext(ctx, &item, sqlGetInventarioByID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return InventarioItem{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get inventario item by ID", err)
		return InventarioItem{}, fmt.Errorf("failed to get inventario item by ID: %w", err)
	}
	return item, nil
}

const sqlCreateInventario = `
INSERT INTO inventario (nombre, categoria, cantidad, unidad, stock_minimo, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
RETURNING *`

func (s *Store) CreateInventario(ctx context.Context, item InventarioItem) (InventarioItem, error) {
	var created InventarioItem
	err := s.db.GetContext(ctx, &created, sqlCreateInventario,
		item.Nombre, item.Categoria, item.Cantidad, item.Unidad, item.StockMinimo)
	if err != nil {
		s.logger.Error(ctx, "failed to create inventario item", err)
		return InventarioItem{}, fmt.Errorf("failed to create inventario item: %w", err)
	}
	return created, nil
}

const sqlUpdateInventario = `
UPDATE inventario
SET nombre = $2, categoria = $3, cantidad = $4, unidad = $5, stock_minimo = $6, updated_at = NOW()
WHERE id = $1
RETURNING *`

func (s *Store) UpdateInventario(ctx context.Context, item InventarioItem) (InventarioItem, error) {
	var updated InventarioItem
	err := s.db.GetContext(ctx, &updated, sqlUpdateInventario,
		item.ID, item.Nombre, item.Categoria, item.Cantidad, item.Unidad, item.StockMinimo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return InventarioItem{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update inventario item", err)
		return InventarioItem{}, fmt.Errorf("failed to update inventario item: %w", err)
	}
	return updated, nil
}

const sqlDeleteInventario = `
DELETE FROM inventario WHERE id = $1`

func (s *Store) DeleteInventario(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, sqlDeleteInventario, id)
	if err != nil {
		s.logger.Error(ctx, "failed to delete inventario item", err)
		return fmt.Errorf("failed to delete inventario item: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlIncrementInventarioStock = `
UPDATE inventario SET cantidad = cantidad + $2, updated_at = NOW()
WHERE id = $1
RETURNING *`

// IncrementInventarioStock applies a signed stock delta atomically.
func (s *Store) IncrementInventarioStock(ctx context.Context, id uuid.UUID, delta int) (InventarioItem, error) {
	var updated InventarioItem
	err := s.db.GetContext(ctx, &updated, sqlIncrementInventarioStock, id, delta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return InventarioItem{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to increment inventario stock", err)
		return InventarioItem{}, fmt.Errorf("failed to increment inventario stock: %w", err)
	}
	return updated, nil
}

const sqlListInventarioStockBajo = `
SELECT * FROM inventario WHERE cantidad <= GREATEST(stock_minimo, $1) ORDER BY cantidad ASC`

func (s *Store) ListInventarioStockBajo(ctx context.Context, limite int) ([]InventarioItem, error) {
	var items []InventarioItem
	err := s.db.SelectContext(ctx, &items, sqlListInventarioStockBajo, limite)
	if err != nil {
		s.logger.Error(ctx, "failed to list inventario stock bajo", err)
		return nil, fmt.Errorf("failed to list inventario stock bajo: %w", err)
	}
	return items, nil
}
