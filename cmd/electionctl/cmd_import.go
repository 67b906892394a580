package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/swingmap/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
	"github.com/vncsmyrnk/swingmap/internal/core/services"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import county reference data, results or demographics from CSV",
	Long: `Imports CSV files into the database. Counties must be imported
before results or demographics that reference them.

Examples:
  electionctl import counties counties.csv
  electionctl import results countypres_2000-2024.csv
  electionctl import demographics acs_2022.csv`,
}

var importCountiesCmd = &cobra.Command{
	Use:   "counties [file]",
	Short: "Import counties (fips,name,state_abbr,state_name,lat,lng,region)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], ports.ImportService.ImportCounties)
	},
}

var importResultsCmd = &cobra.Command{
	Use:   "results [file]",
	Short: "Import county presidential returns, one row per candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], ports.ImportService.ImportResults)
	},
}

var importDemographicsCmd = &cobra.Command{
	Use:   "demographics [file]",
	Short: "Import county demographic snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], ports.ImportService.ImportDemographics)
	},
}

func init() {
	importCmd.AddCommand(importCountiesCmd, importResultsCmd, importDemographicsCmd)
}

type importFunc func(ports.ImportService, context.Context, io.Reader) (ports.ImportReport, error)

func runImport(cmd *cobra.Command, path string, fn importFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	svc := services.NewImportService(
		postgres.NewElectionResultRepository(app.db),
		postgres.NewDemographicRepository(app.db),
		app.logger,
	)

	report, err := fn(svc, cmd.Context(), f)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "rows=%d imported=%d skipped=%d\n", report.Rows, report.Imported, report.Skipped)
	return nil
}
