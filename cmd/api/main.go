// @title        Dog Adoption Search API
// @version      1.0
// @description  Backend de búsqueda de perros en adopción: filtros, paginación, favoritos y match.
// @BasePath     /
package main

import (
	"context"
	"fmt"
	"os"

	"dog-adoption-search/internal/platform/config"
	"dog-adoption-search/internal/platform/logger"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "dogsearch",
	Short: "Servicio de búsqueda de perros en adopción",
	Long: `dogsearch expone una API JSON sobre la API de perros de Fetch:
login, razas, búsqueda con filtros y paginación, favoritos y match.

Sin subcomando arranca el servidor HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Arranca el servidor HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Crea las tablas de Postgres (STORAGE_BACKEND=postgres)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "archivo .env a cargar (opcional)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}

// newLogger arma el logger de consola y, si está habilitado, lo duplica a Fluent Bit.
func newLogger(cfg *config.Config) (logger.Logger, func()) {
	level := logger.ParseLevel(cfg.Log.Level)
	base := logger.New(logger.Options{
		Level:  level,
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	if !cfg.FluentBit.Enabled {
		return base, func() {}
	}

	fl, closeFn, err := logger.NewFluent(logger.FluentOptions{
		Host:  cfg.FluentBit.Host,
		Port:  cfg.FluentBit.Port,
		Level: level,
		App:   cfg.Log.App,
	})
	if err != nil {
		base.Warn("fluent bit disabled", map[string]any{"err": err})
		return base, func() {}
	}
	return logger.NewMulti(base, fl), func() { _ = closeFn() }
}
