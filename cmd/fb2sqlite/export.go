package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davosmed/fb2sqlite/internal/cli"
	"github.com/davosmed/fb2sqlite/internal/common"
	"github.com/davosmed/fb2sqlite/internal/deploy"
	"github.com/davosmed/fb2sqlite/internal/pipeline"
)

const exportDBName = "firstbase.db"

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert the product catalog to a SQLite database",
		Long: `Download the Firstbase product catalog and write every row into a
single-table SQLite database. When a deploy destination is configured the
finished file is copied there with scp.`,
		RunE: runExport,
	}

	cmd.Flags().Bool("local-csv", false, "Use the locally cached CSV instead of downloading (useful when the GS1 server is slow)")

	_ = viper.BindPFlag("export.local_csv", cmd.Flags().Lookup("local-csv"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	slog.Info(cli.FormatTitle("Exporting product catalog"))

	rows, err := loadSourceTable(ctx, viper.GetBool("export.local_csv"))
	if err != nil {
		return common.NewUserError("Could not read the product catalog", err)
	}

	res, err := runPipeline(ctx, exportDBName, rows, pipeline.Config{})
	if err != nil {
		return common.NewUserError("Export failed, no database was written", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Database %s created", exportDBName)), "rows", res.TotalRows)

	destination := viper.GetString("deploy.destination")
	if destination == "" {
		slog.Warn(cli.FormatWarning("No deploy destination configured, skipping transfer"))
		return nil
	}

	if err := deploy.Transfer(ctx, exportDBName, destination); err != nil {
		return common.NewUserError("Database was written but the transfer failed", err)
	}

	slog.Info(cli.FormatSuccess("Transfer complete"))
	return nil
}
