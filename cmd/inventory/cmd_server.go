package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/inventory/database/seeders"
	"github.com/shashiranjanraj/inventory/internal/kernel"
	"github.com/shashiranjanraj/inventory/internal/server"
	"github.com/shashiranjanraj/inventory/pkg/database"
	"github.com/shashiranjanraj/inventory/pkg/migration"
)

var serveMemoryFlag bool

// inventory serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveMemoryFlag {
			db, err := database.OpenMemory("inventory")
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := migration.New(db, io.Discard).Run(); err != nil {
				return err
			}
			if err := seeders.RunAll(cmd.Context(), db, os.Stdout); err != nil {
				return err
			}
			return server.Start(db)
		}

		if err := database.Connect(); err != nil {
			return err
		}
		defer database.Close(database.DB)
		return server.Start(database.DB)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMemoryFlag, "memory", false,
		"serve a seeded in-memory sqlite database instead of DATABASE_URL")
}

// inventory route:list: print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := kernel.NewHTTPKernel(kernel.Options{}).Router().Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		// Sort by path then method.
		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
