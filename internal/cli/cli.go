// Package cli defines the tunedeck command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/config"
	"github.com/llehouerou/tunedeck/internal/logging"
	"github.com/llehouerou/tunedeck/internal/mediaindex"
)

// Execute runs the root command. Without a subcommand it starts the TUI.
func Execute(version string) {
	boa.CmdT[boa.NoParams]{
		Use:     "tunedeck",
		Short:   "Play the music in your library folders",
		Version: version,
		SubCmds: []*cobra.Command{
			ScanCmd(),
			TracksCmd(),
		},
		RunFunc: func(_ *boa.NoParams, _ *cobra.Command, _ []string) {
			exitOnError(runTUI())
		},
	}.Run()
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "tunedeck: %v\n", err)
	os.Exit(1)
}

// env holds what every command opens before doing its work.
type env struct {
	cfg     *config.Config
	log     *slog.Logger
	index   *mediaindex.Index
	closers []io.Closer
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, logFile, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	e := &env{cfg: cfg, log: log, closers: []io.Closer{logFile}}

	idx, err := mediaindex.Open(cfg.IndexPath, log)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open media index: %w", err)
	}
	e.index = idx
	e.closers = append(e.closers, idx)

	log.Info("started", "sources", cfg.LibrarySources, "index", cfg.IndexPath)
	return e, nil
}

// loader reads the catalog through the index, gated on the library folders
// being readable.
func (e *env) loader() *catalog.Loader {
	return catalog.NewLoader(e.index, mediaindex.SourceAccess{Sources: e.cfg.LibrarySources}, e.log)
}

// Close releases resources in reverse order of opening.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			e.log.Warn("close", "err", err)
		}
	}
}
