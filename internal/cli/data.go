package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"options-dashboard/internal/chain"
	"options-dashboard/internal/dashboard"
	apperrors "options-dashboard/internal/errors"
	"options-dashboard/internal/exposure"
	"options-dashboard/internal/models"
	"options-dashboard/internal/validation"
)

// addMarketDataCommands adds the chain, exposure and indicator commands.
func addMarketDataCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExpiriesCmd(app))
	rootCmd.AddCommand(newChainCmd(app))
	rootCmd.AddCommand(newExposureCmd(app))
	rootCmd.AddCommand(newSnapshotCmd(app))
	rootCmd.AddCommand(newIndicatorsCmd(app))
	rootCmd.AddCommand(newIntradayCmd(app))
}

func tickerArg(app *App, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return app.Config.Display.DefaultTicker
}

func newExpiriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "expiries [ticker]",
		Short: "List option expiration dates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			ticker := validation.NormalizeSymbol(tickerArg(app, args))
			expiries, err := app.Gateway.ListExpiries(ctx, ticker)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				dates := make([]string, len(expiries))
				for i, e := range expiries {
					dates[i] = models.FormatExpiry(e)
				}
				return output.JSON(map[string]any{"ticker": ticker, "expiries": dates})
			}

			output.Bold("%s option expiries", ticker)
			if len(expiries) == 0 {
				output.Dim("No listed options")
				return nil
			}
			for _, e := range expiries {
				output.Println("  " + models.FormatExpiry(e))
			}
			return nil
		},
	}
}

func newChainCmd(app *App) *cobra.Command {
	var expiry string
	var top int

	cmd := &cobra.Command{
		Use:   "chain [ticker]",
		Short: "Show the normalized option chain for an expiry",
		Long: `Show the calls and puts for one expiry as a single normalized table.
The nearest listed expiry is used when --expiry is not given. With --top the
most traded contracts are shown instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			ticker := validation.NormalizeSymbol(tickerArg(app, args))
			selected, err := validation.ParseExpiries(expiry)
			if err != nil {
				return err
			}
			if len(selected) == 0 {
				listed, err := app.Gateway.ListExpiries(ctx, ticker)
				if err != nil {
					return err
				}
				if len(listed) == 0 {
					return apperrors.NewExpiryNotFound(ticker, "")
				}
				selected = listed[:1]
			}

			c, err := app.Gateway.FetchChain(ctx, ticker, selected[0])
			if err != nil {
				return err
			}

			frame, err := chain.Combine(c.Calls, c.Puts)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("%s options expiring %s", ticker, models.FormatExpiry(c.Expiry))
			if top > 0 {
				if frame, err = chain.TopByVolume(c.Calls, c.Puts, top); err != nil {
					return err
				}
				title = fmt.Sprintf("Top %d %s options by volume, expiring %s", top, ticker, models.FormatExpiry(c.Expiry))
			} else {
				frame = chain.Normalize(frame)
			}

			if output.IsJSON() {
				return output.JSON(frame)
			}
			output.Bold("%s", title)
			output.Dim("%d calls, %d puts", len(c.Calls), len(c.Puts))
			RenderFrame(output, frame)
			return nil
		},
	}

	cmd.Flags().StringVarP(&expiry, "expiry", "e", "", "expiry date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&top, "top", 0, "show only the N most traded contracts")
	return cmd
}

func newExposureCmd(app *App) *cobra.Command {
	var expiries string

	cmd := &cobra.Command{
		Use:   "exposure [ticker]",
		Short: "Show gamma, delta and vanna exposure by strike",
		Long: `Synthesize greeks for each contract and weight them by open interest.
Exposure is reported per strike for every selected expiry; puts are shown
negative. Greeks are synthetic, see --seed for reproducible output.`,
		Example: "  optionsdash exposure AAPL --expiry 2024-06-21,2024-06-28",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			selected, err := validation.ParseExpiries(expiries)
			if err != nil {
				return err
			}

			view, err := app.Service.Exposure(ctx, dashboard.ExposureRequest{
				Ticker:   tickerArg(app, args),
				Expiries: selected,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(view)
			}

			printMetrics(output, view.Metrics)
			if view.Prompt != "" {
				output.Warning("%s", view.Prompt)
				return nil
			}
			for _, e := range view.Expiries {
				output.Println()
				if e.Err != nil {
					output.Error("%s: %v", e.Expiry, e.Err)
					continue
				}
				printExposure(output, e)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&expiries, "expiry", "e", "", "comma separated expiry dates (YYYY-MM-DD)")
	return cmd
}

func printExposure(output *Output, e dashboard.ExpiryExposure) {
	output.Bold("%s", e.Title)

	t := NewTable(output, "Type", "Strike", "Gamma Exp", "Delta Exp", "Vanna Exp")
	add := func(typ string, gamma, delta, vanna []exposure.BarPoint) {
		for i := 0; i < min(len(gamma), len(delta), len(vanna)); i++ {
			t.AddRow(
				typ,
				FormatCell(gamma[i].Strike),
				output.Signed(gamma[i].Value, FormatPrice(gamma[i].Value)),
				output.Signed(delta[i].Value, FormatPrice(delta[i].Value)),
				output.Signed(vanna[i].Value, FormatPrice(vanna[i].Value)),
			)
		}
	}
	add(string(models.OptionTypeCall), e.Gamma.Calls, e.Delta.Calls, e.Vanna.Calls)
	add(string(models.OptionTypePut), e.Gamma.Puts, e.Delta.Puts, e.Vanna.Puts)
	t.Render()

	var net float64
	for _, p := range e.GEX {
		net += p.GEX
	}
	output.Dim("Net GEX: %s across %d strikes", FormatPrice(net), len(e.GEX))
}

func newSnapshotCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot [ticker]",
		Short: "Show the latest price and volume",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			snap, err := app.Gateway.FetchSnapshot(ctx, validation.NormalizeSymbol(tickerArg(app, args)))
			if err != nil {
				return err
			}
			m := dashboard.MetricsOf(snap)
			if output.IsJSON() {
				return output.JSON(m)
			}
			printMetrics(output, m)
			return nil
		},
	}
}

func printMetrics(output *Output, m dashboard.Metrics) {
	output.Bold("%s as of %s", m.Ticker, models.FormatExpiry(m.AsOf))
	output.Printf("  Price:  %s  %s %s\n",
		FormatPrice(m.Price), output.Arrow(m.PriceArrow), output.Signed(m.PriceChange, FormatChange(m.PriceChange)))
	output.Printf("  Volume: %s  %s %s\n",
		FormatVolume(m.Volume), output.Arrow(m.VolumeArrow), output.Signed(float64(m.VolumeChange), FormatVolumeChange(m.VolumeChange)))
}

func newIndicatorsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "indicators [ticker]",
		Short: "Show RSI and moving averages from daily closes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			view, err := app.Service.Indicators(ctx, tickerArg(app, args))
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(view)
			}

			output.Bold("%s indicators (%d sessions)", view.Ticker, view.Sessions)
			output.Printf("  Close:  %s\n", FormatPrice(view.LatestClose))
			output.Printf("  RSI14:  %s\n", FormatOptional(view.RSI))
			output.Printf("  MA50:   %s\n", FormatOptional(view.MA50))
			output.Printf("  MA200:  %s\n", FormatOptional(view.MA200))
			output.Dim("  Delta:  %s", view.DeltaStatus)
			return nil
		},
	}
}

func newIntradayCmd(app *App) *cobra.Command {
	var interval, period string

	cmd := &cobra.Command{
		Use:   "intraday [ticker]",
		Short: "Show intraday bars",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			ticker := validation.NormalizeSymbol(tickerArg(app, args))
			bars, err := app.Gateway.FetchIntraday(ctx, ticker, interval, period)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(bars)
			}

			output.Bold("%s %s bars over %s", ticker, interval, period)
			t := NewTable(output, "Time", "Open", "High", "Low", "Close", "Volume")
			for _, b := range bars {
				t.AddRow(FormatCell(b.Timestamp), FormatPrice(b.Open), FormatPrice(b.High),
					FormatPrice(b.Low), FormatPrice(b.Close), FormatVolume(b.Volume))
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&interval, "interval", "5m", "bar interval ("+strings.Join(validation.Intervals, ", ")+")")
	cmd.Flags().StringVar(&period, "period", "1d", "lookback period ("+strings.Join(validation.Periods, ", ")+")")
	return cmd
}
