package dto

import "time"

// CreateEmisorRequest entrada para dar de alta un emisor.
type CreateEmisorRequest struct {
	RUC         string `json:"ruc" validate:"required,min=10,max=13"`
	RazonSocial string `json:"razon_social" validate:"required,min=1,max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Telefono    string `json:"telefono"`
	Direccion   string `json:"direccion"`
}

// EmisorResponse salida de un emisor.
type EmisorResponse struct {
	ID          string    `json:"id"`
	RUC         string    `json:"ruc"`
	RazonSocial string    `json:"razon_social"`
	Email       string    `json:"email"`
	Telefono    string    `json:"telefono"`
	Direccion   string    `json:"direccion"`
	Estado      string    `json:"estado"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EmisorListResponse listado paginado de emisores.
type EmisorListResponse struct {
	Items []EmisorResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
