package main

import (
	"database/sql"
	"fmt"

	"github.com/fatih/color"
	"github.com/lib/pq"
	"github.com/sidata/backend/internal/config"
	"github.com/sidata/backend/internal/database"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the SIDATA database",
}

var dbCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the database if missing, then migrate the schema",
	RunE:  runDbCreate,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the schema of an existing database",
	RunE:  runDbMigrate,
}

func init() {
	dbCmd.AddCommand(dbCreateCmd)
	dbCmd.AddCommand(dbMigrateCmd)
}

func runDbCreate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	created, err := createDatabase(cfg.Database)
	if err != nil {
		return err
	}
	if created {
		color.Green("Database '%s' berhasil dibuat", cfg.Database.Name)
	} else {
		color.Yellow("Database '%s' sudah ada", cfg.Database.Name)
	}
	return runDbMigrate(cmd, args)
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := database.Migrate(e.db); err != nil {
		color.Red("Migrasi gagal: %v", err)
		return err
	}
	color.Green("Migrasi schema selesai")
	return nil
}

// createDatabase connects to the maintenance database and creates the
// configured one. It reports false when the database already exists.
func createDatabase(cfg config.DatabaseConfig) (bool, error) {
	db, err := sql.Open("postgres", cfg.MaintenanceDSN())
	if err != nil {
		return false, fmt.Errorf("failed to open postgres: %w", err)
	}
	defer db.Close()

	var exists bool
	err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.Name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check database: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(cfg.Name)); err != nil {
		return false, fmt.Errorf("failed to create database: %w", err)
	}
	return true, nil
}
