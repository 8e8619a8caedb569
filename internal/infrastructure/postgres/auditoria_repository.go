package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/facturaec/admin-api/internal/domain/entity"
	"github.com/facturaec/admin-api/internal/domain/repository"
	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

var _ repository.AuditoriaRepository = (*AuditoriaRepo)(nil)

// AuditoriaRepo implementación de AuditoriaRepository (usable con pool o tx).
// La tabla es de solo inserción.
type AuditoriaRepo struct {
	q Querier
}

// NewAuditoriaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditoriaRepository(q Querier) *AuditoriaRepo {
	return &AuditoriaRepo{q: q}
}

// Create inserta una fila del historial de transiciones.
func (r *AuditoriaRepo) Create(a *entity.AuditoriaTransicion) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO auditoria_transiciones (id, suscripcion_id, estado_anterior, estado_nuevo,
			tipo, motivo, actor_id, actor_rol, client_ip, client_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.SuscripcionID, string(a.EstadoAnterior), string(a.EstadoNuevo),
		string(a.Tipo), a.Motivo, a.ActorID, a.ActorRol, a.ClientIP, a.ClientAgent,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert auditoria: %w", err)
	}
	return nil
}

// ListBySuscripcion devuelve el historial completo, el más reciente primero.
func (r *AuditoriaRepo) ListBySuscripcion(suscripcionID string) ([]*entity.AuditoriaTransicion, error) {
	query := `
		SELECT id, suscripcion_id, estado_anterior, estado_nuevo, tipo, motivo,
		       actor_id, actor_rol, client_ip, client_agent, created_at
		FROM auditoria_transiciones
		WHERE suscripcion_id = $1
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, suscripcionID)
	if err != nil {
		return nil, fmt.Errorf("list auditoria: %w", err)
	}
	defer rows.Close()

	var out []*entity.AuditoriaTransicion
	for rows.Next() {
		var a entity.AuditoriaTransicion
		var anterior, nuevo, tipo string
		if err := rows.Scan(
			&a.ID, &a.SuscripcionID, &anterior, &nuevo, &tipo, &a.Motivo,
			&a.ActorID, &a.ActorRol, &a.ClientIP, &a.ClientAgent, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan auditoria: %w", err)
		}
		a.EstadoAnterior = suscripcion.Estado(anterior)
		a.EstadoNuevo = suscripcion.Estado(nuevo)
		a.Tipo = suscripcion.TipoTransicion(tipo)
		out = append(out, &a)
	}
	return out, rows.Err()
}
