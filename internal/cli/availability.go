package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/rnsdash/internal/core/domain"
)

var availabilityCmd = &cobra.Command{
	Use:   "availability [name.rsk]",
	Short: "Check whether a name can be registered on mainnet",
	Args:  cobra.ExactArgs(1),
	Run:   runAvailability,
}

func init() {
	rootCmd.AddCommand(availabilityCmd)
}

func runAvailability(cmd *cobra.Command, args []string) {
	cfg := setup()

	name, err := domain.ParseName(args[0])
	if err != nil {
		slog.Error("Invalid name", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	defer cancel()

	app := newApp(ctx, cfg)
	defer app.Close()

	a, err := app.Availability().Availability(ctx, name)
	if err != nil {
		slog.Error("Failed to check availability", "name", name, "error", err)
		app.Close()
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "NAME\tNETWORK\tAVAILABLE\tRIF/YEAR")
	_, _ = fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", a.Name, a.Network, a.Available, a.RIFPricePerYear)
	_ = w.Flush()
}
