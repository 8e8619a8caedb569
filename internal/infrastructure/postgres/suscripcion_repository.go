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

var _ repository.SuscripcionRepository = (*SuscripcionRepo)(nil)

const suscripcionColumns = `id, emisor_id, plan_id, fecha_inicio, fecha_fin,
	comprobantes_asignados, comprobantes_usados, estado, estado_transaccion,
	comision_estado, comision_monto, comision_recibo, updated_by, created_at, updated_at`

// SuscripcionRepo implementación de SuscripcionRepository (usable con pool o tx).
type SuscripcionRepo struct {
	q Querier
}

// NewSuscripcionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSuscripcionRepository(q Querier) *SuscripcionRepo {
	return &SuscripcionRepo{q: q}
}

// Create persiste una suscripción nueva.
func (r *SuscripcionRepo) Create(s *entity.Suscripcion) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO suscripciones (id, emisor_id, plan_id, fecha_inicio, fecha_fin,
			comprobantes_asignados, comprobantes_usados, estado, estado_transaccion,
			comision_estado, comision_monto, comision_recibo, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.EmisorID, s.PlanID, s.FechaInicio, s.FechaFin,
		s.ComprobantesAsignados, s.ComprobantesUsados, string(s.Estado), s.EstadoTransaccion,
		s.ComisionEstado, s.ComisionMonto, nullIfEmpty(s.ComisionRecibo), nullIfEmpty(s.UpdatedBy),
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert suscripcion: %w", err)
	}
	return nil
}

// GetByID obtiene una suscripción por ID (sin bloqueo).
func (r *SuscripcionRepo) GetByID(id string) (*entity.Suscripcion, error) {
	query := `SELECT ` + suscripcionColumns + ` FROM suscripciones WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByIDParaActualizar obtiene la suscripción con bloqueo exclusivo. Solo
// tiene efecto real dentro de una transacción (repositorio atado a tx):
// serializa la unidad de mutación por suscripción.
func (r *SuscripcionRepo) GetByIDParaActualizar(id string) (*entity.Suscripcion, error) {
	query := `SELECT ` + suscripcionColumns + ` FROM suscripciones WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// ActualizarEstado escribe únicamente estado y updated_by. Es el único
// camino de escritura del estado: el resto de updates no lo tocan.
func (r *SuscripcionRepo) ActualizarEstado(s *entity.Suscripcion) error {
	query := `
		UPDATE suscripciones
		SET estado = $2, updated_by = COALESCE($3, updated_by), updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, s.ID, string(s.Estado), nullIfEmpty(s.UpdatedBy))
	if err != nil {
		return fmt.Errorf("update estado suscripcion: %w", err)
	}
	return nil
}

// Update escribe los campos editables por la capa CRUD; nunca el estado.
func (r *SuscripcionRepo) Update(s *entity.Suscripcion) error {
	query := `
		UPDATE suscripciones
		SET plan_id = $2, fecha_inicio = $3, fecha_fin = $4,
		    comprobantes_asignados = $5, comprobantes_usados = $6,
		    estado_transaccion = $7, comision_estado = $8, comision_monto = $9,
		    comision_recibo = $10, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.PlanID, s.FechaInicio, s.FechaFin,
		s.ComprobantesAsignados, s.ComprobantesUsados,
		s.EstadoTransaccion, s.ComisionEstado, s.ComisionMonto,
		nullIfEmpty(s.ComisionRecibo),
	)
	if err != nil {
		return fmt.Errorf("update suscripcion: %w", err)
	}
	return nil
}

// Delete borra físicamente la suscripción (la regla de elegibilidad la
// aplica el caso de uso).
func (r *SuscripcionRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM suscripciones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete suscripcion: %w", err)
	}
	return nil
}

// ListByEmisor lista las suscripciones del emisor, la más reciente primero.
func (r *SuscripcionRepo) ListByEmisor(emisorID string) ([]*entity.Suscripcion, error) {
	query := `SELECT ` + suscripcionColumns + `
		FROM suscripciones WHERE emisor_id = $1 ORDER BY created_at DESC`
	return r.scanMany(query, emisorID)
}

// ListEvaluables devuelve las suscripciones del emisor sujetas a derivación
// automática: todas menos SUSPENDIDO y PENDIENTE.
func (r *SuscripcionRepo) ListEvaluables(emisorID string) ([]*entity.Suscripcion, error) {
	query := `SELECT ` + suscripcionColumns + `
		FROM suscripciones
		WHERE emisor_id = $1 AND estado NOT IN ('SUSPENDIDO', 'PENDIENTE')
		ORDER BY created_at`
	return r.scanMany(query, emisorID)
}

// GetProgramadaMasAntigua devuelve la suscripción PROGRAMADO más antigua (por
// fecha de inicio) del emisor, con bloqueo exclusivo para la activación en
// cascada. SKIP LOCKED no aplica: la cascada debe esperar al otro escritor.
func (r *SuscripcionRepo) GetProgramadaMasAntigua(emisorID string) (*entity.Suscripcion, error) {
	query := `SELECT ` + suscripcionColumns + `
		FROM suscripciones
		WHERE emisor_id = $1 AND estado = 'PROGRAMADO'
		ORDER BY fecha_inicio ASC
		LIMIT 1
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, emisorID))
}

func (r *SuscripcionRepo) scanMany(query string, args ...any) ([]*entity.Suscripcion, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query suscripciones: %w", err)
	}
	defer rows.Close()

	var out []*entity.Suscripcion
	for rows.Next() {
		s, err := scanSuscripcion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SuscripcionRepo) scanOne(row pgx.Row) (*entity.Suscripcion, error) {
	s, err := scanSuscripcion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func scanSuscripcion(row pgx.Row) (*entity.Suscripcion, error) {
	var s entity.Suscripcion
	var estado string
	var comisionRecibo, updatedBy *string
	err := row.Scan(
		&s.ID, &s.EmisorID, &s.PlanID, &s.FechaInicio, &s.FechaFin,
		&s.ComprobantesAsignados, &s.ComprobantesUsados, &estado, &s.EstadoTransaccion,
		&s.ComisionEstado, &s.ComisionMonto, &comisionRecibo, &updatedBy,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan suscripcion: %w", err)
	}
	s.Estado = suscripcion.Estado(estado)
	if comisionRecibo != nil {
		s.ComisionRecibo = *comisionRecibo
	}
	if updatedBy != nil {
		s.UpdatedBy = *updatedBy
	}
	return &s, nil
}
