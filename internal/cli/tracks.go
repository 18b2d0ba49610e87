package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/errmsg"
)

// TracksParams holds parameters for the tracks command.
type TracksParams struct {
	Limit int `short:"n" optional:"true" help:"Print at most this many tracks (0 prints all)" default:"0"`
}

// TracksCmd prints the catalog in the order the TUI lists it.
func TracksCmd() *cobra.Command {
	return boa.CmdT[TracksParams]{
		Use:   "tracks",
		Short: "Print the track catalog",
		RunFunc: func(params *TracksParams, _ *cobra.Command, _ []string) {
			exitOnError(runTracks(params, os.Stdout))
		},
	}.ToCobra()
}

func runTracks(params *TracksParams, out io.Writer) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	tracks, err := e.loader().Load(context.Background())
	if errors.Is(err, catalog.ErrPermissionDenied) {
		return errors.New(errmsg.PermissionRequired)
	}
	if err != nil {
		return err
	}

	writeTracks(out, tracks, params.Limit)
	return nil
}

func writeTracks(out io.Writer, tracks []catalog.Track, limit int) {
	shown := tracks
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Title", "Artist", "Album", "Length"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: 48},
		{Number: 3, WidthMax: 32},
		{Number: 4, WidthMax: 32},
		{Number: 5, Align: text.AlignRight},
	})

	var total time.Duration
	for i, tr := range shown {
		total += tr.Duration
		t.AppendRow(table.Row{i + 1, tr.Title, tr.Artist, tr.Album, tr.DurationFormatted()})
	}

	summary := humanize.Comma(int64(len(tracks))) + " tracks"
	if len(shown) < len(tracks) {
		summary = fmt.Sprintf("%s of %s", humanize.Comma(int64(len(shown))), summary)
	}
	t.AppendFooter(table.Row{"", summary, "", "", catalog.FormatDuration(total)})
	t.Render()
}
