package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/facturaec/admin-api/internal/application/auth"
	"github.com/facturaec/admin-api/internal/application/lifecycle"
	"github.com/facturaec/admin-api/internal/application/usecase"
	"github.com/facturaec/admin-api/internal/infrastructure/postgres"
	httpRouter "github.com/facturaec/admin-api/internal/interfaces/http"
	"github.com/facturaec/admin-api/pkg/config"
	"github.com/facturaec/admin-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	planRepo := postgres.NewPlanRepository(pool)
	emisorRepo := postgres.NewEmisorRepository(pool)
	susRepo := postgres.NewSuscripcionRepository(pool)
	audRepo := postgres.NewAuditoriaRepository(pool)
	usuarioRepo := postgres.NewUsuarioRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	reloj := lifecycle.Reloj(time.Now)
	ciclo := lifecycle.NewService(txRunner, susRepo, audRepo, reloj, log)

	planUC := usecase.NewPlanUseCase(planRepo)
	emisorUC := usecase.NewEmisorUseCase(emisorRepo)
	susUC := usecase.NewSuscripcionUseCase(susRepo, planRepo, emisorRepo, ciclo, reloj)
	authUC := auth.NewAuthUseCase(usuarioRepo, emisorRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FacturaEC Admin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PlanUC:        planUC,
		EmisorUC:      emisorUC,
		SuscripcionUC: susUC,
		Ciclo:         ciclo,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
