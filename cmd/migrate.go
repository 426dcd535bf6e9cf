package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lectern-app/lectern-api/internal/database"
	"github.com/lectern-app/lectern-api/internal/models"
	"github.com/lectern-app/lectern-api/pkg/config"
)

// migratedModels is the full schema, in dependency order
var migratedModels = []any{
	&models.TranscriptJob{},
	&models.GeneratedArtifact{},
	&models.ProgressRecord{},
	&models.Certificate{},
	&models.Job{},
}

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the database schema for the Lectern API.

Schema changes are applied with GORM AutoMigrate, which creates missing
tables, columns, and indexes but never drops existing ones.

Available subcommands:
  up      - Apply the current schema
  status  - Show which tables exist`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply the current schema",
	Long: `Apply the current schema to the configured database.

Creates any missing tables, columns, and indexes. Existing data is
left untouched.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows which tables exist
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long:  `Display which of the expected tables exist in the configured database.`,
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

func openMigrationDB() (*database.DB, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Initialize(database.Options{
		Path:       cfg.Database.Path,
		EnableWAL:  cfg.Database.EnableWAL,
		LogQueries: cfg.Database.LogQueries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if dryRun {
		fmt.Println("Dry run mode - no changes will be made")
		for _, model := range migratedModels {
			fmt.Printf("  would migrate %T\n", model)
		}
		return nil
	}

	db, err := openMigrationDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(migratedModels...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Printf("Applied schema for %d models\n", len(migratedModels))
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openMigrationDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	fmt.Println("Database Migration Status")
	fmt.Println(strings.Repeat("=", 50))

	migrator := db.DB.Migrator()
	for _, model := range migratedModels {
		state := "missing"
		if migrator.HasTable(model) {
			state = "present"
		}
		fmt.Printf("  %-40T %s\n", model, state)
	}

	return nil
}
