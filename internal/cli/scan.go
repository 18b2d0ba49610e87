package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tunedeck/internal/mediaindex"
)

// ScanParams holds parameters for the scan command.
type ScanParams struct {
	Sources []string `pos:"true" optional:"true" help:"Folders to scan (default: library_sources from the config)"`
	Quiet   bool     `short:"q" optional:"true" help:"Only print the summary"`
}

var errNoSources = errors.New("no library folders configured, set library_sources in config.toml")

// ScanCmd rescans the library folders into the media index.
func ScanCmd() *cobra.Command {
	return boa.CmdT[ScanParams]{
		Use:   "scan",
		Short: "Rescan the library folders into the media index",
		RunFunc: func(params *ScanParams, _ *cobra.Command, _ []string) {
			exitOnError(runScan(params, os.Stdout))
		},
	}.ToCobra()
}

func runScan(params *ScanParams, out io.Writer) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	sources := params.Sources
	if len(sources) == 0 {
		sources = e.cfg.LibrarySources
	}
	if len(sources) == 0 {
		return errNoSources
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := make(chan mediaindex.ScanProgress, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		printProgress(out, progress, params.Quiet)
	}()

	start := time.Now()
	stats, err := e.index.Scan(ctx, sources, progress)
	<-done
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	total, err := e.index.Count(ctx)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	writeScanSummary(out, stats, total, time.Since(start))
	return nil
}

// printProgress prints one line per scan phase.
func printProgress(out io.Writer, progress <-chan mediaindex.ScanProgress, quiet bool) {
	var phase string
	for p := range progress {
		if quiet || p.Phase == phase {
			continue
		}
		phase = p.Phase
		if p.Total > 0 {
			fmt.Fprintf(out, "%s %s files\n", p.Phase, humanize.Comma(int64(p.Total)))
		} else {
			fmt.Fprintf(out, "%s\n", p.Phase)
		}
	}
}

func writeScanSummary(out io.Writer, s mediaindex.ScanStats, total int, took time.Duration) {
	fmt.Fprintf(out, "Found %s files in %s\n", humanize.Comma(int64(s.Found)), took.Round(time.Millisecond))
	fmt.Fprintf(out, "  added     %s\n", humanize.Comma(int64(s.Added)))
	fmt.Fprintf(out, "  updated   %s\n", humanize.Comma(int64(s.Updated)))
	fmt.Fprintf(out, "  removed   %s\n", humanize.Comma(int64(s.Removed)))
	fmt.Fprintf(out, "  unchanged %s\n", humanize.Comma(int64(s.Unchanged)))
	fmt.Fprintf(out, "%s tracks indexed\n", humanize.Comma(int64(total)))
}
