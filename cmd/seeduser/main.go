// cmd/seeduser/main.go: Crea el SuperAdmin inicial si no existe ninguno.
// Uso: go run ./cmd/seeduser
package main

import (
	"context"
	"fmt"
	"os"

	"fiadopos/internal/config"
	"fiadopos/internal/infra"
	"fiadopos/internal/repository"
	"fiadopos/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	authSvc := service.NewAuthService(repository.NewUsuarioRepository(db), cfg)
	creado, err := authSvc.CrearAdminInicial(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("seed error")
	}
	if creado {
		fmt.Println("Usuario 'admin' creado con password 'admin'. Cambiala al ingresar.")
		return
	}
	fmt.Println("Ya existe al menos un SuperAdmin activo; no se hicieron cambios.")
}
