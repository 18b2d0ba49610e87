package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/playback"
	"github.com/llehouerou/tunedeck/internal/player"
)

func TestBridge_DeliversSessionEvents(t *testing.T) {
	engine := player.NewMock()
	engine.SetPrepareError("/m/bad.mp3", assert.AnError)
	s := playback.New(engine)
	defer s.Close()

	b := NewBridge(8)
	b.Attach(s)

	require.NoError(t, s.SubmitQueue([]catalog.Track{
		{ID: 1, Title: "Bad", Source: "/m/bad.mp3"},
		{ID: 2, Title: "Good", Source: "/m/good.mp3"},
	}, 0))

	msgs := []tea.Msg{b.Wait()(), b.Wait()(), b.Wait()()}

	errMsg, ok := msgs[0].(SessionErrorMsg)
	require.True(t, ok)
	var perr *playback.PrepareError
	require.ErrorAs(t, errMsg.Err, &perr)
	assert.Equal(t, "Bad", perr.Track.Title)

	assert.Equal(t, TrackChangedMsg{Track: catalog.Track{ID: 2, Title: "Good", Source: "/m/good.mp3"}}, msgs[1])
	assert.Equal(t, PlayStateMsg{Playing: true}, msgs[2])
}

func TestBridge_DetachStopsEvents(t *testing.T) {
	s := playback.New(player.NewMock())
	defer s.Close()

	b := NewBridge(8)
	b.Attach(s)
	b.Detach(s)

	require.NoError(t, s.SubmitQueue([]catalog.Track{{ID: 1, Source: "/m/1.mp3"}}, 0))

	assert.Empty(t, b.ch)
}

func TestBridge_FullBufferDrops(t *testing.T) {
	b := NewBridge(1)

	b.send(PlayStateMsg{Playing: true})
	b.send(PlayStateMsg{Playing: false})

	assert.Len(t, b.ch, 1)
	assert.Equal(t, PlayStateMsg{Playing: true}, b.Wait()())
}

func TestBridge_Closed(t *testing.T) {
	b := NewBridge(1)
	close(b.ch)

	assert.Equal(t, bridgeClosedMsg{}, b.Wait()())
}
