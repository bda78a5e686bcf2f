package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/inventory/database/seeders"
	"github.com/shashiranjanraj/inventory/pkg/database"
	"github.com/shashiranjanraj/inventory/pkg/migration"
)

// inventory migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Connect(); err != nil {
			return err
		}
		defer database.Close(database.DB)
		fmt.Println("Running migrations…")
		return migration.New(database.DB, os.Stdout).Run()
	},
}

// inventory migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Connect(); err != nil {
			return err
		}
		defer database.Close(database.DB)
		fmt.Println("Rolling back last batch…")
		return migration.New(database.DB, os.Stdout).Rollback()
	},
}

// inventory migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Connect(); err != nil {
			return err
		}
		defer database.Close(database.DB)
		return migration.New(database.DB, os.Stdout).Status()
	},
}

// inventory seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo stores and products into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Connect(); err != nil {
			return err
		}
		defer database.Close(database.DB)
		fmt.Println("Running seeders…")
		return seeders.RunAll(cmd.Context(), database.DB, os.Stdout)
	},
}
