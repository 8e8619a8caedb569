package dto

import "time"

// CreatePlanRequest entrada para crear un plan del catálogo.
type CreatePlanRequest struct {
	Nombre                string `json:"nombre" validate:"required,min=1,max=100"`
	Periodo               string `json:"periodo" validate:"required"`
	ComprobantesIncluidos int    `json:"comprobantes_incluidos" validate:"required,gt=0"`
	UmbralMinComprobantes int    `json:"umbral_min_comprobantes" validate:"min=0"`
	UmbralMinDias         int    `json:"umbral_min_dias" validate:"min=0"`
	Precio                string `json:"precio" validate:"required"`
}

// PlanResponse salida de un plan.
type PlanResponse struct {
	ID                    string    `json:"id"`
	Nombre                string    `json:"nombre"`
	Periodo               string    `json:"periodo"`
	ComprobantesIncluidos int       `json:"comprobantes_incluidos"`
	UmbralMinComprobantes int       `json:"umbral_min_comprobantes"`
	UmbralMinDias         int       `json:"umbral_min_dias"`
	Precio                string    `json:"precio"`
	Activo                bool      `json:"activo"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// PlanListResponse listado paginado de planes.
type PlanListResponse struct {
	Items []PlanResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
