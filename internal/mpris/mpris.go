//go:build linux

package mpris

import (
	"log/slog"

	"github.com/quarckster/go-mpris-server/pkg/server"
)

// Adapter exposes a playback session as an MPRIS media player over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(ctl Controller, log *slog.Logger) (*Adapter, error) {
	if log == nil {
		log = slog.Default()
	}
	a := &Adapter{
		server: server.NewServer("tunedeck", &rootAdapter{}, &playerAdapter{ctl: ctl}),
	}

	go func() {
		if err := a.server.Listen(); err != nil {
			log.Warn("mpris server stopped", "err", err)
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}
