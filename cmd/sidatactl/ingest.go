package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sidata/backend/internal/domain"
	"github.com/sidata/backend/internal/ingest"
	"github.com/sidata/backend/internal/repository"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:       "import <dosen|taruna> <file>",
	Short:     "Import a spreadsheet into the database",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"dosen", "taruna"},
	RunE:      runImport,
}

var templateCmd = &cobra.Command{
	Use:   "template <dosen|taruna>",
	Short: "Write the import template, prefilled with current records",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplate,
}

var (
	importUptFlag  string
	templateOutput string
)

func init() {
	importCmd.Flags().StringVar(&importUptFlag, "upt", "", "Unit code owning the records (default from IMPORT_DEFAULT_UPT)")
	templateCmd.Flags().StringVarP(&templateOutput, "output", "o", "", "Output file (default template_<entity>.xlsx)")
}

// importers builds both entity pipelines against the environment database.
type importers struct {
	dosen  *ingest.Importer[domain.Dosen]
	taruna *ingest.Importer[domain.Taruna]
}

func newImporters(e *env) importers {
	opts := []ingest.Option{ingest.WithMaxBytes(e.cfg.Import.MaxUploadBytes), ingest.WithLogger(e.logger)}
	return importers{
		dosen:  ingest.NewImporter(ingest.DosenProfile(), ingest.Store[domain.Dosen](repository.NewDosenRepository(e.db)), opts...),
		taruna: ingest.NewImporter(ingest.TarunaProfile(nil), ingest.Store[domain.Taruna](repository.NewTarunaRepository(e.db)), opts...),
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	entity := strings.ToLower(args[0])
	payload, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[1], err)
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	unit := importUptFlag
	if unit == "" {
		unit = e.cfg.Import.DefaultUnitCode
	}
	upload := ingest.Upload{Filename: filepath.Base(args[1]), Payload: payload}
	ims := newImporters(e)
	ctx := context.Background()

	var result *ingest.BatchResult
	switch entity {
	case "dosen":
		result, err = ims.dosen.Import(ctx, upload, unit)
	case "taruna":
		result, err = ims.taruna.Import(ctx, upload, unit)
	default:
		return fmt.Errorf("entity tidak dikenal: %s (dosen atau taruna)", args[0])
	}

	if err != nil {
		color.Red("Import gagal: %v", err)
		if f, ok := ingest.AsFailure(err); ok {
			printRowErrors(f.RowErrors)
		}
		return err
	}

	printSummary(result)
	printRowErrors(result.Errors)
	return nil
}

func printSummary(result *ingest.BatchResult) {
	if result.Failed > 0 {
		color.Yellow("%s", result.Message())
	} else {
		color.Green("%s", result.Message())
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Total", "Berhasil", "Gagal", "Baru", "Diperbarui", "Dilewati"})
	table.Append([]string{
		strconv.Itoa(result.Total),
		strconv.Itoa(result.Success),
		strconv.Itoa(result.Failed),
		strconv.Itoa(result.Inserted),
		strconv.Itoa(result.Updated),
		strconv.Itoa(result.Skipped),
	})
	table.Render()
}

func printRowErrors(rowErrors []string) {
	if len(rowErrors) == 0 {
		return
	}
	color.Yellow("\nBaris yang gagal")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Error"})
	table.SetAutoWrapText(false)
	for _, msg := range rowErrors {
		table.Append([]string{msg})
	}
	table.Render()
}

func runTemplate(cmd *cobra.Command, args []string) error {
	entity := strings.ToLower(args[0])

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ims := newImporters(e)
	ctx := context.Background()

	var data []byte
	switch entity {
	case "dosen":
		data, err = ims.dosen.Template(ctx)
	case "taruna":
		data, err = ims.taruna.Template(ctx)
	default:
		return fmt.Errorf("entity tidak dikenal: %s (dosen atau taruna)", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to generate template: %w", err)
	}

	out := templateOutput
	if out == "" {
		out = fmt.Sprintf("template_%s.xlsx", entity)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	color.Green("Template %s ditulis ke %s", entity, out)
	return nil
}
