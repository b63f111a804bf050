package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jhoicas/tms-settlements/internal/infrastructure/migration"
	"github.com/jhoicas/tms-settlements/pkg/config"
	"github.com/jhoicas/tms-settlements/pkg/logger"
)

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", "", "carpeta de migraciones (default: MIGRATIONS_PATH o ./migrations)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	if migrationsPath == "" {
		migrationsPath = cfg.DB.MigrationsPath
	}
	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("ruta de migraciones inválida")
	}

	log.Info().Str("command", command).Str("migrations_path", absPath).Msg("migraciones")

	m, err := migration.NewFromURL(cfg.DB.ConnectionString(), absPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step":
		n, convErr := intArg(args)
		if convErr != nil {
			log.Fatal().Err(convErr).Msg("uso: migrate step <n>")
		}
		err = m.Steps(n)
	case "force":
		v, convErr := intArg(args)
		if convErr != nil {
			log.Fatal().Err(convErr).Msg("uso: migrate force <version>")
		}
		log.Warn().Int("version", v).Msg("forzando versión de migración")
		err = m.Force(v)
	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = m.Version()
		if err == nil {
			log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión actual")
		}
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migración fallida")
	}
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("falta argumento numérico")
	}
	return strconv.Atoi(args[1])
}

func printUsage() {
	fmt.Println(`Migraciones de base de datos TMS

Uso:
  migrate [-path dir] <comando> [argumentos]

Comandos:
  up                Aplica todas las migraciones pendientes
  down              Revierte todas las migraciones
  step <n>          Aplica n migraciones (positivo=up, negativo=down)
  force <version>   Fuerza la versión (usar con cuidado)
  version           Muestra la versión actual`)
}
