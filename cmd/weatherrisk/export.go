package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/weatherwise-risk/internal/export"
)

var (
	exportFormat string
	exportIn     string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a saved analysis as CSV or JSON",
	Long: `Render a forecast or historical result previously saved as JSON into the
downloadable report. Without --out the report is written to stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", export.FormatCSV, "csv or json")
	exportCmd.Flags().StringVar(&exportIn, "in", "", "path to a saved analysis result")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path, or \"-\" to use the report filename")
	_ = exportCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(exportIn)
	if err != nil {
		return fmt.Errorf("read analysis: %w", err)
	}

	file, err := export.Render(export.Request{Format: exportFormat, Data: data})
	if err != nil {
		return err
	}

	switch exportOut {
	case "":
		_, err = cmd.OutOrStdout().Write(file.Body)
		return err
	case "-":
		exportOut = file.Filename
	}
	if err := os.WriteFile(exportOut, file.Body, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", exportOut)
	return nil
}
