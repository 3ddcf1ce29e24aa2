package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/missionlog/internal/audit"
	"github.com/fentz26/missionlog/internal/seed"
	"github.com/fentz26/missionlog/internal/store"
)

var importForce bool

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import mission results from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List the import ledger",
	Args:  cobra.NoArgs,
	RunE:  runImports,
}

func init() {
	importCmd.Flags().BoolVar(&importForce, "force", false, "Import even if this batch was imported before")
}

func runImport(cmd *cobra.Command, args []string) error {
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	importer := seed.NewImporter(s, audit.NewLedger(s), logger)
	sum, err := importer.ImportFile(context.Background(), args[0], importForce)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sum.Skipped {
		fmt.Fprintf(out, "Already imported on %s (import %s). Use --force to import again.\n",
			sum.Previous.ImportedAt.Local().Format("2006-01-02 15:04"), truncateID(sum.Previous.ID))
		return nil
	}
	fmt.Fprintf(out, "Imported %d results from %s\n", sum.Imported, sum.Source)
	return nil
}

func runImports(cmd *cobra.Command, args []string) error {
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	recs, err := s.ListImports(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(out, "No imports found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tRECORDS\tIMPORTED")
	for _, rec := range recs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", truncateID(rec.ID), truncate(rec.Source, 50),
			rec.RecordCount, rec.ImportedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
