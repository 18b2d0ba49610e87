package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/playback"
)

// Observer is the callback surface of playback.Session.
type Observer interface {
	OnTrackChanged(fn func(catalog.Track))
	OnPlayStateChanged(fn func(playing bool))
	OnError(fn func(error))
}

var _ Observer = (*playback.Session)(nil)

// Bridge moves session callbacks onto the bubbletea loop. Callbacks run on
// the session goroutine and only do a non-blocking send, so a slow UI drops
// events instead of stalling playback.
type Bridge struct {
	ch chan tea.Msg
}

// NewBridge creates a bridge buffering up to size events.
func NewBridge(size int) *Bridge {
	return &Bridge{ch: make(chan tea.Msg, size)}
}

// Attach registers the bridge as the session's observer.
func (b *Bridge) Attach(o Observer) {
	o.OnTrackChanged(func(t catalog.Track) { b.send(TrackChangedMsg{Track: t}) })
	o.OnPlayStateChanged(func(playing bool) { b.send(PlayStateMsg{Playing: playing}) })
	o.OnError(func(err error) { b.send(SessionErrorMsg{Err: err}) })
}

// Detach clears the session's observers.
func (b *Bridge) Detach(o Observer) {
	o.OnTrackChanged(nil)
	o.OnPlayStateChanged(nil)
	o.OnError(nil)
}

func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
		// Channel full, drop the event; the next poll catches up
	}
}

// Wait returns a command delivering the next bridged event.
func (b *Bridge) Wait() tea.Cmd {
	return waitForChannel(b.ch, func(msg tea.Msg, ok bool) tea.Msg {
		if !ok {
			return bridgeClosedMsg{}
		}
		return msg
	})
}
