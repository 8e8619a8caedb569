package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/facturaec/admin-api/internal/domain/entity"
	"github.com/facturaec/admin-api/internal/domain/repository"
)

var _ repository.EmisorRepository = (*EmisorRepo)(nil)

// EmisorRepo implementación de EmisorRepository (usable con pool o tx).
type EmisorRepo struct {
	q Querier
}

// NewEmisorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmisorRepository(q Querier) *EmisorRepo {
	return &EmisorRepo{q: q}
}

// Create persiste un emisor.
func (r *EmisorRepo) Create(e *entity.Emisor) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO emisores (id, ruc, razon_social, email, telefono, direccion, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.RUC, e.RazonSocial, nullIfEmpty(e.Email), nullIfEmpty(e.Telefono),
		nullIfEmpty(e.Direccion), e.Estado, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("emisor con ese RUC ya existe: %w", err)
		}
		return fmt.Errorf("insert emisor: %w", err)
	}
	return nil
}

// GetByID obtiene un emisor por ID.
func (r *EmisorRepo) GetByID(id string) (*entity.Emisor, error) {
	return r.getBy("id", id)
}

// GetByRUC obtiene un emisor por RUC.
func (r *EmisorRepo) GetByRUC(ruc string) (*entity.Emisor, error) {
	return r.getBy("ruc", ruc)
}

func (r *EmisorRepo) getBy(col, val string) (*entity.Emisor, error) {
	query := `
		SELECT id, ruc, razon_social, email, telefono, direccion, estado, created_at, updated_at
		FROM emisores WHERE ` + col + ` = $1`
	var e entity.Emisor
	var email, telefono, direccion *string
	err := r.q.QueryRow(context.Background(), query, val).Scan(
		&e.ID, &e.RUC, &e.RazonSocial, &email, &telefono, &direccion,
		&e.Estado, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get emisor: %w", err)
	}
	if email != nil {
		e.Email = *email
	}
	if telefono != nil {
		e.Telefono = *telefono
	}
	if direccion != nil {
		e.Direccion = *direccion
	}
	return &e, nil
}

// List lista emisores con paginación, los más recientes primero.
func (r *EmisorRepo) List(limit, offset int) ([]*entity.Emisor, error) {
	query := `
		SELECT id, ruc, razon_social, email, telefono, direccion, estado, created_at, updated_at
		FROM emisores ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list emisores: %w", err)
	}
	defer rows.Close()

	var out []*entity.Emisor
	for rows.Next() {
		var e entity.Emisor
		var email, telefono, direccion *string
		if err := rows.Scan(
			&e.ID, &e.RUC, &e.RazonSocial, &email, &telefono, &direccion,
			&e.Estado, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan emisor: %w", err)
		}
		if email != nil {
			e.Email = *email
		}
		if telefono != nil {
			e.Telefono = *telefono
		}
		if direccion != nil {
			e.Direccion = *direccion
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// ListIDs devuelve los IDs de todos los emisores (para el barrido global).
func (r *EmisorRepo) ListIDs() ([]string, error) {
	rows, err := r.q.Query(context.Background(), `SELECT id FROM emisores ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list emisor ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan emisor id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
