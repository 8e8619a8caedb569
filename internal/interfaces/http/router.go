package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturaec/admin-api/internal/application/auth"
	"github.com/facturaec/admin-api/internal/application/lifecycle"
	"github.com/facturaec/admin-api/internal/application/usecase"
	"github.com/facturaec/admin-api/internal/domain/suscripcion"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PlanUC        *usecase.PlanUseCase
	EmisorUC      *usecase.EmisorUseCase
	SuscripcionUC *usecase.SuscripcionUseCase
	Ciclo         *lifecycle.Service
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	soloAdmin := RequireRol(string(suscripcion.RolSuperAdmin), string(suscripcion.RolAdmin))

	// Planes (catálogo: lectura abierta a cualquier rol autenticado, alta solo admin)
	planes := protected.Group("/planes")
	planHandler := NewPlanHandler(deps.PlanUC)
	planes.Get("/", planHandler.List)
	planes.Get("/:id", planHandler.GetByID)
	planes.Post("/", soloAdmin, planHandler.Create)

	// Emisores
	emisores := protected.Group("/emisores")
	emisorHandler := NewEmisorHandler(deps.EmisorUC)
	emisores.Get("/", emisorHandler.List)
	emisores.Get("/:id", emisorHandler.GetByID)
	emisores.Post("/", soloAdmin, emisorHandler.Create)

	// Suscripciones + ciclo de vida
	susHandler := NewSuscripcionHandler(deps.SuscripcionUC, deps.Ciclo)
	emisores.Get("/:id/suscripciones", susHandler.ListByEmisor)
	emisores.Post("/:id/barrido", soloAdmin, susHandler.Barrido)

	sus := protected.Group("/suscripciones")
	sus.Post("/", susHandler.Create)
	sus.Get("/:id", susHandler.GetByID)
	sus.Delete("/:id", soloAdmin, susHandler.Delete)
	sus.Post("/:id/comprobantes", soloAdmin, susHandler.AumentarComprobantes)
	sus.Post("/:id/consumo", susHandler.ConsumirComprobante)
	sus.Post("/:id/plan", soloAdmin, susHandler.CambiarPlan)
	sus.Post("/:id/confirmar", soloAdmin, susHandler.ConfirmarTransaccion)
	sus.Post("/:id/comision", soloAdmin, susHandler.RegistrarComision)

	// El registro de transiciones valida el rol por arco; aquí solo se exige
	// un token válido.
	sus.Post("/:id/transicion", susHandler.Transicion)
	sus.Get("/:id/transiciones", susHandler.TransicionesDisponibles)
	sus.Get("/:id/historial", susHandler.Historial)
	sus.Post("/:id/evaluar", susHandler.Evaluar)
}
