package app

import (
	"encoding/json"
	"fmt"

	"github.com/blackwell-systems/healthwatch/internal/output"
	"github.com/blackwell-systems/healthwatch/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Load health samples from JSON exports or FIT activity files",
	Long: `Import samples into the local database. Two formats are accepted:

  .json  an array of {"metric", "value", "unit", "date"} records, or a
         document previously printed by 'healthwatch summary --json'
  .fit   activity files from watches and bike computers; heart rate is
         kept at one sample per minute, sessions add active energy and
         distance

Samples already stored are ignored, so importing the same file twice is safe.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	r, err := setup()
	if err != nil {
		return err
	}
	defer r.close()

	results := make([]store.ImportResult, 0, len(args))
	for _, path := range args {
		res, err := store.ImportFile(cmd.Context(), r.db, path)
		if err != nil {
			return err
		}
		r.log.Debug("imported", zap.String("path", path), zap.Int("inserted", res.Inserted))
		results = append(results, res)
	}

	if flagJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	p := output.NewPrinter(r.cfg.Output.Locale)
	tbl := output.NewTable("File", "Read", "Inserted", "Skipped").AlignRight(1, 2, 3)
	for _, res := range results {
		tbl.AddRow(res.Path, p.Count(res.Read), p.Count(res.Inserted), p.Count(res.Skipped))
	}
	tbl.Print()
	return nil
}
