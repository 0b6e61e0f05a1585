package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Piecework-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Piecework-api/pkg/config"
	"github.com/jhoicas/Piecework-api/pkg/logger"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "piecework",
		Short:        "Servicio de producción por pieza, kits y stock",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newImportCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Inicia la API HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica o revierte las migraciones embebidas",
	}
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica todas las migraciones pendientes",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, log, err := loadConfigAndLogger()
				if err != nil {
					return err
				}
				return postgres.MigrateUp(cfg.DB.ConnectionString(), log)
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Revierte migraciones (todas si no se indica steps)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				steps := 0
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n <= 0 {
						return fmt.Errorf("steps debe ser un entero positivo: %q", args[0])
					}
					steps = n
				}
				cfg, log, err := loadConfigAndLogger()
				if err != nil {
					return err
				}
				return postgres.MigrateDown(cfg.DB.ConnectionString(), steps, log)
			},
		},
	)
	return migrateCmd
}

func loadConfigAndLogger() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
		Version: version,
	})
	return cfg, log, nil
}
