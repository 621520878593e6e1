package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Usuario struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Nombre       string    `db:"nombre" json:"nombre"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Rol          string    `db:"rol" json:"rol"`
	Telefono     string    `db:"telefono" json:"telefono"`
	UppID        string    `db:"upp_id" json:"upp_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const sqlListUsuarios = `
SELECT * FROM usuarios ORDER BY created_at DESC`

func (s *Store) ListUsuarios(ctx context.Context) ([]Usuario, error) {
	var usuarios []Usuario
	err := s.db.SelectContext(ctx, &usuarios, sqlListUsuarios)
	if err != nil {
		s.logger.Error(ctx, "failed to list usuarios", err)
		return nil, fmt.Errorf("failed to list usuarios: %w", err)
	}
	return usuarios, nil
}

const sqlGetUsuarioByID = `
SELECT * FROM usuarios WHERE id = $1`

func (s *Store) GetUsuarioByID(ctx context.Context, id uuid.UUID) (Usuario, error) {
	var usuario Usuario
	err := s.db.GetContext(ctx, &usuario, sqlGetUsuarioByID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Usuario{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get usuario by ID", err)
		return Usuario{}, fmt.Errorf("failed to get usuario by ID: %w", err)
	}
	return usuario, nil
}

const sqlGetUsuarioByEmail = `
SELECT * FROM usuarios WHERE email = $1`

func (s *Store) GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error) {
	var usuario Usuario
	err := s.db.GetContext(ctx, &usuario, sqlGetUsuarioByEmail, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Usuario{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get usuario by email", err)
		return Usuario{}, fmt.Errorf("failed to get usuario by email: %w", err)
	}
	return usuario, nil
}

const sqlCreateUsuario = `
INSERT INTO usuarios (nombre, email, password_hash, rol, telefono, upp_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING *`

func (s *Store) CreateUsuario(ctx context.Context, u Usuario) (Usuario, error) {
	var created Usuario
	err := s.db.GetContext(ctx, &created, sqlCreateUsuario,
		u.Nombre, u.Email, u.PasswordHash, u.Rol, u.Telefono, u.UppID)
	if err != nil {
		s.logger.Error(ctx, "failed to create usuario", err)
		return Usuario{}, fmt.Errorf("failed to create usuario: %w", err)
	}
	return created, nil
}

const sqlUpdateUsuario = `
UPDATE usuarios
SET nombre = $2, email = $3, rol = $4, telefono = $5, upp_id = $6, updated_at = NOW()
WHERE id = $1
RETURNING *`

func (s *Store) UpdateUsuario(ctx context.Context, u Usuario) (Usuario, error) {
	var updated Usuario
	err := s.db.GetContext(ctx, &updated, sqlUpdateUsuario,
		u.ID, u.Nombre, u.Email, u.Rol, u.Telefono, u.UppID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Usuario{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update usuario", err)
		return Usuario{}, fmt.Errorf("failed to update usuario: %w", err)
	}
	return updated, nil
}

const sqlDeleteUsuario = `
DELETE FROM usuarios WHERE id = $1`

func (s *Store) DeleteUsuario(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, sqlDeleteUsuario, id)
	if err != nil {
		s.logger.Error(ctx, "failed to delete usuario", err)
		return fmt.Errorf("failed to delete usuario: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}
