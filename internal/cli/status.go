package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show upstream provider health and quota usage",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := setup()

	ctx := context.Background()
	app := newApp(ctx, cfg)
	defer app.Close()

	report := app.Health(ctx)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "PROVIDER\tSTATUS\tCALLS TODAY\tQUOTA")
	for _, name := range slices.Sorted(maps.Keys(report.Providers)) {
		p := report.Providers[name]
		calls, quota := "-", "unlimited"
		if p.Usage != nil {
			calls = fmt.Sprintf("%d", p.Usage.TotalCalls)
			if p.Usage.DailyLimit > 0 {
				quota = fmt.Sprintf("%d", p.Usage.DailyLimit)
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, p.Status, calls, quota)
	}
	_ = w.Flush()
	fmt.Printf("\nsystem: %s\n", report.SystemStatus)
}
