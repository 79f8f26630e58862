package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/acadflow/syllabus-planner/internal/config"
	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/pkg/log"
	"github.com/acadflow/syllabus-planner/pkg/migrations"
)

type migrateOptions struct {
	MigrationFolder string
}

func (o *migrateOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.MigrationFolder, "migration-folder", "m", o.MigrationFolder, "Folder with goose migration files. Overrides the configured one; empty falls back to the schema auto-migration.")
}

var migrateOpts = &migrateOptions{}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalf("reading configuration: %v", err)
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Migrating the database")
		defer zap.S().Info("Db migrated")

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalf("initializing data store: %v", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		folder := cfg.Service.MigrationFolder
		if migrateOpts.MigrationFolder != "" {
			folder = migrateOpts.MigrationFolder
		}

		if folder != "" {
			if err := migrations.MigrateStore(db, folder); err != nil {
				zap.S().Fatalf("running goose migrations: %v", err)
			}
			return nil
		}

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalf("running initial migration: %v", err)
		}

		return nil
	},
}

func init() {
	migrateOpts.Bind(migrateCmd.Flags())
}
