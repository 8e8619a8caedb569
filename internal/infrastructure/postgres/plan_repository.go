package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/facturaec/admin-api/internal/domain/entity"
	"github.com/facturaec/admin-api/internal/domain/repository"
	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

var _ repository.PlanRepository = (*PlanRepo)(nil)

// PlanRepo implementación de PlanRepository (usable con pool o tx).
type PlanRepo struct {
	q Querier
}

// NewPlanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPlanRepository(q Querier) *PlanRepo {
	return &PlanRepo{q: q}
}

// Create persiste un plan del catálogo.
func (r *PlanRepo) Create(p *entity.Plan) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO planes (id, nombre, periodo, comprobantes_incluidos,
			umbral_min_comprobantes, umbral_min_dias, precio, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Nombre, string(p.Periodo), p.ComprobantesIncluidos,
		p.UmbralMinComprobantes, p.UmbralMinDias, p.Precio, p.Activo,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("plan ya existe: %w", err)
		}
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// GetByID obtiene un plan por ID.
func (r *PlanRepo) GetByID(id string) (*entity.Plan, error) {
	query := `
		SELECT id, nombre, periodo, comprobantes_incluidos,
		       umbral_min_comprobantes, umbral_min_dias, precio, activo, created_at, updated_at
		FROM planes WHERE id = $1`
	var p entity.Plan
	var periodo string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Nombre, &periodo, &p.ComprobantesIncluidos,
		&p.UmbralMinComprobantes, &p.UmbralMinDias, &p.Precio, &p.Activo,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	p.Periodo = suscripcion.Periodo(periodo)
	return &p, nil
}

// List lista planes con paginación, los más recientes primero.
func (r *PlanRepo) List(limit, offset int) ([]*entity.Plan, error) {
	query := `
		SELECT id, nombre, periodo, comprobantes_incluidos,
		       umbral_min_comprobantes, umbral_min_dias, precio, activo, created_at, updated_at
		FROM planes ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list planes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Plan
	for rows.Next() {
		var p entity.Plan
		var periodo string
		if err := rows.Scan(
			&p.ID, &p.Nombre, &periodo, &p.ComprobantesIncluidos,
			&p.UmbralMinComprobantes, &p.UmbralMinDias, &p.Precio, &p.Activo,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		p.Periodo = suscripcion.Periodo(periodo)
		out = append(out, &p)
	}
	return out, rows.Err()
}
