package main

import (
	"fmt"

	"eventdesk/internal/config"
	"eventdesk/internal/db"
	"eventdesk/internal/logx"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "eventdesk",
		Short:         "Event planning backend: guests, seating, vendors and WhatsApp invites",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSessionCmd(),
	)

	return root
}

// env is what every subcommand needs before doing its own work.
type env struct {
	cfg config.Config
	log zerolog.Logger
	db  *gorm.DB
}

func bootstrap() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logx.New(cfg.LogLevel, cfg.LogFormat)

	gdb, err := db.Connect(cfg.DatabaseURL, db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &env{cfg: cfg, log: log, db: gdb}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap()
			if err != nil {
				return err
			}
			defer e.close()

			if err := db.AutoMigrateAndIndexes(e.db.WithContext(cmd.Context())); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			e.log.Info().Msg("migrations applied")
			return nil
		},
	}
}
