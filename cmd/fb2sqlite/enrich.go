package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davosmed/fb2sqlite/internal/catalog"
	"github.com/davosmed/fb2sqlite/internal/cli"
	"github.com/davosmed/fb2sqlite/internal/common"
	"github.com/davosmed/fb2sqlite/internal/deploy"
	"github.com/davosmed/fb2sqlite/internal/fetch"
	"github.com/davosmed/fb2sqlite/internal/match"
	"github.com/davosmed/fb2sqlite/internal/pipeline"
)

func enrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Convert the catalog with MiGeL enrichment",
		Long: `Download the product catalog and the MiGeL reference workbook, match
every product against the MiGeL positions by keyword overlap, and write
only the matched products, each carrying its MiGeL code, name and
limitation, into a SQLite database.`,
		RunE: runEnrich,
	}

	cmd.Flags().Bool("local-csv", false, "Use the locally cached CSV instead of downloading (useful when the GS1 server is slow)")
	cmd.Flags().Bool("deploy", false, "Transfer the finished database to the configured destination")
	cmd.Flags().IntP("workers", "w", 0, "Number of matcher workers (default: number of CPUs)")

	_ = viper.BindPFlag("enrich.local_csv", cmd.Flags().Lookup("local-csv"))
	_ = viper.BindPFlag("enrich.deploy", cmd.Flags().Lookup("deploy"))
	_ = viper.BindPFlag("match.workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	slog.Info(cli.FormatTitle("Exporting product catalog with MiGeL enrichment"))

	rows, err := loadSourceTable(ctx, viper.GetBool("enrich.local_csv"))
	if err != nil {
		return common.NewUserError("Could not read the product catalog", err)
	}

	migelFile := viper.GetString("migel.file")
	if err := fetch.Download(ctx, viper.GetString("migel.url"), migelFile, fetch.DefaultTimeout); err != nil {
		return common.NewUserError("Could not download the MiGeL workbook", err)
	}

	items, err := catalog.Load(migelFile)
	if err != nil {
		return common.NewUserError("Could not parse the MiGeL workbook", err)
	}
	slog.Info("MiGeL positions loaded", "count", len(items))

	deploying := viper.GetBool("enrich.deploy")

	// A stable name for the published file, a date-stamped one otherwise.
	dbName := "firstbase_migel.db"
	if !deploying {
		dbName = time.Now().Format("firstbase_migel_02.01.2006.db")
	}

	res, err := runPipeline(ctx, dbName, rows, pipeline.Config{
		Items:    items,
		Index:    match.BuildIndex(items),
		Workers:  viper.GetInt("match.workers"),
		Enrich:   true,
		Progress: true,
	})
	if err != nil {
		return common.NewUserError("Enrichment failed, no database was written", err)
	}

	displayEnrichmentSummary(dbName, res)

	if !deploying {
		return nil
	}

	destination := viper.GetString("deploy.destination")
	if destination == "" {
		slog.Warn(cli.FormatWarning("No deploy destination configured, skipping transfer"))
		return nil
	}

	if err := deploy.Transfer(ctx, dbName, destination); err != nil {
		return common.NewUserError("Database was written but the transfer failed", err)
	}

	slog.Info(cli.FormatSuccess("Transfer complete"))
	return nil
}

func displayEnrichmentSummary(dbName string, res pipeline.Result) {
	matchRate := 0.0
	if res.TotalRows > 0 {
		matchRate = float64(res.Matched) / float64(res.TotalRows) * 100
	}

	content := fmt.Sprintf(`Rows processed: %d
Rows matched: %d (%.1f%%)
Database: %s
`, res.TotalRows, res.Matched, matchRate, dbName)

	content += cli.SubtleStyle.Render("Unmatched products are not written in enrichment mode.")

	slog.Info(cli.RenderBox("Enrichment Summary", content))
}
