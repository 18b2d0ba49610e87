package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/playback"
	"github.com/llehouerou/tunedeck/internal/player"
)

func TestUrgencyValues(t *testing.T) {
	// Values sent in the urgency hint
	assert.Equal(t, Urgency(0), UrgencyLow)
	assert.Equal(t, Urgency(1), UrgencyNormal)
	assert.Equal(t, Urgency(2), UrgencyCritical)
}

// fakeNotifier hands out increasing IDs and honours ReplacesID.
type fakeNotifier struct {
	mu       sync.Mutex
	nextID   uint32
	sent     []Notification
	closed   []uint32
	onAction func(id uint32, key string)
	err      error
}

func (f *fakeNotifier) Notify(n Notification) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.sent = append(f.sent, n)
	if n.ReplacesID != 0 {
		return n.ReplacesID, nil
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeNotifier) Close(id uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeNotifier) OnAction(fn func(id uint32, key string)) { f.onAction = fn }
func (f *fakeNotifier) Shutdown() error                         { return nil }

func (f *fakeNotifier) press(id uint32, key string) { f.onAction(id, key) }

func track() catalog.Track {
	return catalog.Track{ID: 1, Title: "Song", Artist: "Band", Source: "/m/song.mp3"}
}

func TestTransport_PostPlaying(t *testing.T) {
	f := &fakeNotifier{}
	tr := NewTransport(f, nil)

	require.NoError(t, tr.Post(playback.NewTransport(track(), true)))

	require.Len(t, f.sent, 1)
	n := f.sent[0]
	assert.Equal(t, "Song", n.Title)
	assert.Equal(t, "Band", n.Body)
	assert.Equal(t, playback.IconPlaying, n.Icon)
	assert.True(t, n.Resident)
	assert.Equal(t, TimeoutNever, n.Timeout)
	assert.Equal(t, []Action{
		{Key: playback.ActionPrev, Label: "Previous"},
		{Key: playback.ActionPlayPause, Label: "Pause"},
		{Key: playback.ActionNext, Label: "Next"},
	}, n.Actions)
}

func TestTransport_PausedIsDismissible(t *testing.T) {
	f := &fakeNotifier{}
	tr := NewTransport(f, nil)

	require.NoError(t, tr.Post(playback.NewTransport(track(), false)))

	assert.False(t, f.sent[0].Resident)
	assert.Equal(t, TimeoutDefault, f.sent[0].Timeout)
}

func TestTransport_ArtworkOverridesIcon(t *testing.T) {
	f := &fakeNotifier{}
	tr := NewTransport(f, nil)
	tk := track()
	tk.Artwork = "/m/cover.jpg"

	require.NoError(t, tr.Post(playback.NewTransport(tk, true)))

	assert.Equal(t, "/m/cover.jpg", f.sent[0].Icon)
}

func TestTransport_ReplacesInPlace(t *testing.T) {
	f := &fakeNotifier{}
	tr := NewTransport(f, nil)

	require.NoError(t, tr.Post(playback.NewTransport(track(), true)))
	require.NoError(t, tr.Post(playback.NewTransport(track(), false)))

	assert.Equal(t, uint32(0), f.sent[0].ReplacesID)
	assert.Equal(t, uint32(1), f.sent[1].ReplacesID)
}

func TestTransport_Dismiss(t *testing.T) {
	f := &fakeNotifier{}
	tr := NewTransport(f, nil)

	require.NoError(t, tr.Dismiss(), "nothing showing")
	assert.Empty(t, f.closed)

	require.NoError(t, tr.Post(playback.NewTransport(track(), true)))
	require.NoError(t, tr.Dismiss())
	require.NoError(t, tr.Dismiss())

	assert.Equal(t, []uint32{1}, f.closed)

	require.NoError(t, tr.Post(playback.NewTransport(track(), true)))
	assert.Equal(t, uint32(0), f.sent[1].ReplacesID, "a dismissed notification is not replaced")
}

func TestTransport_PostError(t *testing.T) {
	boom := errors.New("no server")
	f := &fakeNotifier{err: boom}
	tr := NewTransport(f, nil)

	require.ErrorIs(t, tr.Post(playback.NewTransport(track(), true)), boom)
}

func TestTransport_Route(t *testing.T) {
	f := &fakeNotifier{}
	tr := NewTransport(f, nil)
	var got []string
	tr.Route(func(action string) error {
		got = append(got, action)
		if action != playback.ActionNext && action != playback.ActionPrev && action != playback.ActionPlayPause {
			return playback.ErrUnknownAction
		}
		return nil
	})
	require.NoError(t, tr.Post(playback.NewTransport(track(), true)))

	f.press(1, playback.ActionNext)
	f.press(1, "default")
	f.press(7, playback.ActionPrev)
	f.press(1, "bogus")

	assert.Equal(t, []string{playback.ActionNext, "bogus"}, got)
}

func TestTransport_DrivesSession(t *testing.T) {
	f := &fakeNotifier{}
	tr := NewTransport(f, nil)
	s := playback.New(player.NewMock(), playback.WithNotifier(tr))
	defer s.Close()
	tr.Route(s.Dispatch)
	tracks := []catalog.Track{
		{ID: 1, Title: "One", Source: "/m/1.mp3"},
		{ID: 2, Title: "Two", Source: "/m/2.mp3"},
	}
	require.NoError(t, s.SubmitQueue(tracks, 0))

	f.press(1, playback.ActionNext)
	assert.Equal(t, "Two", s.CurrentTrack().Title)

	f.press(1, playback.ActionPlayPause)
	assert.Equal(t, playback.StatePaused, s.State())
	assert.Equal(t, "Play", f.sent[len(f.sent)-1].Actions[1].Label)
}
