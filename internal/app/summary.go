package app

import (
	"fmt"
	"io"
	"os"

	"github.com/blackwell-systems/healthwatch/internal/health"
	"github.com/blackwell-systems/healthwatch/internal/output"
	"github.com/blackwell-systems/healthwatch/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the health data the assistant would see",
	Long: `Run the same aggregation that precedes every question and print, per
metric, how many samples fall inside the query window, the most recent value
and how many samples are stored in total. With --json the exact document sent
to the completion endpoint is printed instead.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	r, err := setup()
	if err != nil {
		return err
	}
	defer r.close()

	// Local inspection only; the source is never asked for authorization.
	agg, err := r.aggregator(store.NewSource(r.db, nil))
	if err != nil {
		return err
	}
	agg.OnSeriesDone = func(m health.Metric) {
		r.log.Debug("series done", zap.String("metric", string(m)))
	}
	doc := agg.Collect(cmd.Context())

	if flagJSON {
		_, err := os.Stdout.Write(append(health.Encode(doc), '\n'))
		return err
	}

	stored, err := r.db.CountByMetric(cmd.Context())
	if err != nil {
		return fmt.Errorf("counting samples: %w", err)
	}
	renderSummary(os.Stdout, doc, stored, output.NewPrinter(r.cfg.Output.Locale))
	return nil
}

// renderSummary prints one table row per metric followed by the calorie
// estimate.
func renderSummary(w io.Writer, doc *health.Document, stored map[string]int, p *output.Printer) {
	fmt.Fprintln(w, output.Section("Health data summary"))
	fmt.Fprintln(w)

	tbl := output.NewTable("Metric", "Samples", "Stored", "Latest", "Unit", "Recorded").AlignRight(1, 2, 3)
	for _, m := range health.Metrics {
		series := doc.Series[m]
		latest, recorded := "-", "-"
		if len(series) > 0 {
			latest = p.Value(series[0].Value)
			recorded = series[0].Timestamp
		}
		tbl.AddRow(string(m), p.Count(len(series)), p.Count(stored[string(m)]), latest, string(m.CanonicalUnit()), recorded)
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s samples in the query window\n", p.Count(doc.SampleCount()))

	days := len(doc.DailyCalories)
	if days == 0 {
		fmt.Fprintln(w, output.Status("No daily calorie estimate (no active energy samples)."))
		return
	}
	total := 0.0
	for _, d := range doc.DailyCalories {
		total += d.Calories
	}
	fmt.Fprintf(w, "Daily calorie estimate: %s days, %s kcal total (%s to %s)\n",
		p.Count(days), p.Value(total), doc.DailyCalories[0].Date, doc.DailyCalories[days-1].Date)
}
