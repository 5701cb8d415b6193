// Package cmd contiene los comandos de línea del CRM: el servidor HTTP,
// las migraciones y las tareas de administración.
package cmd

import (
	"fmt"
	"os"

	"github.com/AnthonyFclub/glor-crm/config"
	"github.com/AnthonyFclub/glor-crm/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags globales
	logLevel string
	logJSON  bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "glor-crm",
	Short: "Glor CRM - gestión de inmuebles, contactos y negocios",
	Long: `Glor CRM es el backend del CRM inmobiliario.

La configuración se lee de variables de entorno (DB_*, JWT_SECRET,
MEMCACHED_HOST, RABBITMQ_URL, MONGO_URI, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.LoadConfig(); err != nil {
			return err
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-json") {
			cfg.LogJSON = logJSON
		}

		if logger, err = logging.New(cfg.LogLevel, cfg.LogJSON); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Nivel de log (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", true, "Logs en formato JSON")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, createUserCmd)
}

// Execute corre el comando raíz
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
