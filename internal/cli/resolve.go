package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/rnsdash/internal/core/domain"
	"github.com/vietddude/rnsdash/internal/dashboard"
)

var network string

var resolveCmd = &cobra.Command{
	Use:   "resolve [name.rsk]",
	Short: "Resolve a name and print its balances, tokens, NFTs and transfers",
	Args:  cobra.ExactArgs(1),
	Run:   runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&network, "network", "mainnet", "mainnet or testnet")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) {
	cfg := setup()

	n, err := domain.ParseNetwork(network)
	if err != nil {
		slog.Error("Invalid network", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	defer cancel()

	app := newApp(ctx, cfg)
	defer app.Close()

	view, err := app.Dashboard().Lookup(ctx, args[0], n)
	if err != nil {
		slog.Error("Failed to resolve name", "name", args[0], "error", err)
		app.Close()
		os.Exit(1)
	}
	printView(view)
}

func printView(v *dashboard.View) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintf(w, "NAME\t%s\n", v.Name)
	_, _ = fmt.Fprintf(w, "NETWORK\t%s\n", v.Network)
	_, _ = fmt.Fprintf(w, "ADDRESS\t%s\n", v.Address)
	if v.Balance.Data != nil {
		_, _ = fmt.Fprintf(w, "BALANCE\t%s RBTC\n", v.Balance.Data.Ether)
	}
	_ = w.Flush()

	section(v.Curated.Error, "CURATED", "SYMBOL\tBALANCE\tADDRESS", func(w *tabwriter.Writer) {
		for _, b := range v.Curated.Data {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", b.Symbol, b.Formatted, b.Address)
		}
	})
	section(v.Tokens.Error, "TOKENS", "SYMBOL\tNAME\tRAW\tADDRESS", func(w *tabwriter.Writer) {
		for _, t := range v.Tokens.Data {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Symbol, t.Name, t.BalanceRaw, t.Address)
		}
	})
	section(v.NFTs.Error, "NFTS", "NAME\tTOKEN ID\tCONTRACT", func(w *tabwriter.Writer) {
		for _, n := range v.NFTs.Data {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", n.Name, n.TokenID, n.ContractAddress)
		}
	})
	section(v.Txs.Error, "TRANSFERS", "HASH\tFROM\tTO\tVALUE\tASSET", func(w *tabwriter.Writer) {
		for _, t := range v.Txs.Data {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.Hash, t.FromAddress, str(t.ToAddress), str(t.Value), str(t.Asset))
		}
	})
}

func section(errMsg, title, header string, rows func(w *tabwriter.Writer)) {
	fmt.Println()
	fmt.Println(title)
	if errMsg != "" {
		fmt.Printf("  error: %s\n", errMsg)
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, header)
	rows(w)
	_ = w.Flush()
}

func str(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
