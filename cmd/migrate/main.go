// migrate aplica o revierte el esquema embebido.
//
// Uso: go run ./cmd/migrate [-log-level info] up | down | steps N | version
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/botilleria-pos/internal/infrastructure/migrations"
	"github.com/jhoicas/botilleria-pos/pkg/config"
	"github.com/jhoicas/botilleria-pos/pkg/logger"
)

func main() {
	logLevel := flag.String("log-level", "info", "nivel de log (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: "development", Level: *logLevel})

	m, err := migrations.New(cfg.DB.ConnectionString(), log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer m.Close()

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if len(args) < 2 {
			printUsage()
			os.Exit(1)
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal().Str("arg", args[1]).Msg("steps requiere un entero")
		}
		err = m.Steps(n)
	case "version":
		v, dirty, vErr := m.Version()
		if vErr != nil {
			log.Fatal().Err(vErr).Msg("leer versión")
		}
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión del esquema")
		return
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Str("comando", args[0]).Msg("migración fallida")
	}
	log.Info().Str("comando", args[0]).Msg("migración aplicada")
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "uso: migrate [-log-level nivel] up | down | steps N | version")
}
