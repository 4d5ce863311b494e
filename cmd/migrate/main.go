// Command migrate aplica el esquema del libro de lotes: migrate up | down | steps N | version.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/farmacia-lotes/internal/infrastructure/postgres"
	"github.com/jhoicas/farmacia-lotes/pkg/config"
	"github.com/jhoicas/farmacia-lotes/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name + "-migrate"})

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: migrate up | down | steps N | version")
		os.Exit(2)
	}

	migrator, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("migrador")
	}
	defer migrator.Close()

	switch os.Args[1] {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "steps":
		if len(os.Args) < 3 {
			log.Fatal().Msg("steps requiere N (negativo para revertir)")
		}
		n, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			log.Fatal().Err(convErr).Msg("N inválido")
		}
		err = migrator.Steps(n)
	case "version":
		v, dirty, verr := migrator.Version()
		if verr != nil {
			err = verr
			break
		}
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión del esquema")
	default:
		log.Fatal().Str("cmd", os.Args[1]).Msg("comando desconocido")
	}
	if err != nil {
		log.Error().Err(err).Msg("migración fallida")
		os.Exit(1)
	}
}
