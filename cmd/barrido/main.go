// barrido recorre todos los emisores y ejecuta la evaluación automática del
// ciclo de vida sobre sus suscripciones evaluables. Pensado para correr
// periódicamente (cron) fuera del proceso HTTP.
//
// Uso: go run ./cmd/barrido
package main

import (
	"context"
	"time"

	"github.com/facturaec/admin-api/internal/application/lifecycle"
	"github.com/facturaec/admin-api/internal/infrastructure/postgres"
	"github.com/facturaec/admin-api/pkg/config"
	"github.com/facturaec/admin-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	susRepo := postgres.NewSuscripcionRepository(pool)
	audRepo := postgres.NewAuditoriaRepository(pool)
	emisorRepo := postgres.NewEmisorRepository(pool)
	ciclo := lifecycle.NewService(postgres.NewTxRunner(pool), susRepo, audRepo, lifecycle.Reloj(time.Now), log)

	ids, err := emisorRepo.ListIDs()
	if err != nil {
		log.Fatal().Err(err).Msg("listar emisores")
	}

	totales := lifecycle.ResultadoBarrido{}
	for _, emisorID := range ids {
		res, err := ciclo.BarridoEmisor(ctx, emisorID)
		if err != nil {
			log.Error().Err(err).Str("emisor_id", emisorID).Msg("barrido del emisor fallido")
			continue
		}
		totales.Evaluadas += res.Evaluadas
		totales.Cambiadas += res.Cambiadas
		totales.Fallidas += res.Fallidas
	}

	log.Info().
		Int("emisores", len(ids)).
		Int("evaluadas", totales.Evaluadas).
		Int("cambiadas", totales.Cambiadas).
		Int("fallidas", totales.Fallidas).
		Msg("barrido completado")
}
