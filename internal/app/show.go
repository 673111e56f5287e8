package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// Show prints recent signal runs.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show runs")
	}
	if closeStore != nil {
		defer closeStore()
	}

	runs, err := store.ListRecentRuns(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "no runs found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tCrypto\tUS\tTW RSI\tTriggered\tTriggers\tDelivered")

	for _, run := range runs {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%t\t%d\t%t\n",
			run.RunTS.UTC().Format(time.RFC3339),
			formatIndicator(run.CryptoIndex),
			formatIndicator(run.USIndex),
			formatIndicator(run.TWRSI),
			run.Triggered,
			run.TriggerCount,
			run.Delivered,
		)
	}

	writer.Flush()
	return nil
}

func formatIndicator(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
