package playback

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/player"
)

func makeTracks(n int) []catalog.Track {
	tracks := make([]catalog.Track, n)
	for i := range n {
		tracks[i] = catalog.Track{
			ID:       int64(i + 1),
			Title:    fmt.Sprintf("Track %d", i),
			Artist:   fmt.Sprintf("Artist %d", i),
			Album:    catalog.UnknownAlbum,
			Duration: 3 * time.Minute,
			Source:   fmt.Sprintf("/music/track%d.mp3", i),
		}
	}
	return tracks
}

// recorder captures observer callbacks and notifier calls in order.
type recorder struct {
	mu     sync.Mutex
	events []string
	posted []Transport
	errs   []error
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.posted = nil
	r.errs = nil
}

func (r *recorder) Post(t Transport) error {
	r.mu.Lock()
	r.posted = append(r.posted, t)
	r.mu.Unlock()
	r.add("post:" + t.Title)
	return nil
}

func (r *recorder) Dismiss() error {
	r.add("dismiss")
	return nil
}

func (r *recorder) LastPosted() Transport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.posted[len(r.posted)-1]
}

func (r *recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *player.Mock, *recorder) {
	t.Helper()
	engine := player.NewMock()
	rec := &recorder{}
	s := New(engine, append([]Option{WithNotifier(rec)}, opts...)...)
	s.OnTrackChanged(func(tr catalog.Track) { rec.add("track:" + tr.Title) })
	s.OnPlayStateChanged(func(playing bool) { rec.add(fmt.Sprintf("playing:%v", playing)) })
	s.OnError(func(err error) {
		rec.mu.Lock()
		rec.errs = append(rec.errs, err)
		rec.mu.Unlock()
		rec.add("error")
	})
	t.Cleanup(func() { _ = s.Close() })
	return s, engine, rec
}

func TestNew_StartsIdle(t *testing.T) {
	s, engine, _ := newTestSession(t)

	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.CurrentTrack())
	assert.False(t, s.IsPlaying())
	assert.Empty(t, s.Queue())
	assert.Empty(t, engine.PrepareCalls())
}

func TestSubmitQueue_PlaysStartTrack(t *testing.T) {
	for k := range 4 {
		t.Run(fmt.Sprintf("start=%d", k), func(t *testing.T) {
			s, engine, rec := newTestSession(t)
			tracks := makeTracks(4)

			require.NoError(t, s.SubmitQueue(tracks, k))

			cur := s.CurrentTrack()
			require.NotNil(t, cur)
			assert.Equal(t, tracks[k], *cur)
			assert.True(t, s.IsPlaying())
			assert.Equal(t, []string{tracks[k].Source}, engine.PrepareCalls())
			assert.True(t, engine.Last().Started())
			assert.Equal(t, []string{
				"track:" + tracks[k].Title,
				"playing:true",
				"post:" + tracks[k].Title,
			}, rec.Events())
		})
	}
}

func TestSubmitQueue_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		tracks []catalog.Track
		start  int
	}{
		{"empty", nil, 0},
		{"negative", makeTracks(2), -1},
		{"past end", makeTracks(2), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, engine, rec := newTestSession(t)
			require.NoError(t, s.SubmitQueue(makeTracks(3), 1))
			before := s.Status()
			rec.Reset()

			err := s.SubmitQueue(tt.tracks, tt.start)

			require.ErrorIs(t, err, ErrInvalidQueue)
			assert.Equal(t, before, s.Status())
			assert.Empty(t, rec.Events())
			assert.Len(t, engine.PrepareCalls(), 1)
		})
	}
}

func TestSubmitQueue_ReleasesPreviousInstance(t *testing.T) {
	s, engine, _ := newTestSession(t)
	require.NoError(t, s.SubmitQueue(makeTracks(2), 0))
	first := engine.Last()

	require.NoError(t, s.SubmitQueue(makeTracks(3), 2))

	assert.True(t, first.Released())
	assert.Equal(t, 1, engine.Live())
	assert.Equal(t, 3, s.Status().QueueLen)
}

func TestSubmitQueue_CopiesInput(t *testing.T) {
	s, _, _ := newTestSession(t)
	tracks := makeTracks(2)
	require.NoError(t, s.SubmitQueue(tracks, 0))

	tracks[0].Title = "Mutated"

	assert.Equal(t, "Track 0", s.CurrentTrack().Title)
}

func TestPlayPause_Toggles(t *testing.T) {
	s, engine, rec := newTestSession(t)
	tracks := makeTracks(3)
	require.NoError(t, s.SubmitQueue(tracks, 1))
	rec.Reset()

	require.NoError(t, s.PlayPause())
	assert.Equal(t, StatePaused, s.State())
	assert.False(t, engine.Last().Playing())
	assert.False(t, rec.LastPosted().Ongoing)

	require.NoError(t, s.PlayPause())
	assert.Equal(t, StatePlaying, s.State())
	assert.True(t, engine.Last().Playing())
	assert.Equal(t, tracks[1], *s.CurrentTrack())

	assert.Equal(t, []string{
		"playing:false", "post:Track 1",
		"playing:true", "post:Track 1",
	}, rec.Events())
	assert.Len(t, engine.PrepareCalls(), 1, "toggling must not prepare again")
}

func TestPlayPause_NoTrackIsNoop(t *testing.T) {
	s, engine, rec := newTestSession(t)

	require.NoError(t, s.PlayPause())

	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, engine.PrepareCalls())
	assert.Empty(t, rec.Events())
}

func TestPlayNext_WrapsAround(t *testing.T) {
	for n := 1; n <= 5; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s, _, _ := newTestSession(t)
			tracks := makeTracks(n)
			require.NoError(t, s.SubmitQueue(tracks, 0))

			for i := 1; i <= n; i++ {
				require.NoError(t, s.PlayNext())
				assert.Equal(t, tracks[i%n], *s.CurrentTrack())
				assert.True(t, s.IsPlaying())
			}
		})
	}
}

func TestPlayPrevious_InvertsPlayNext(t *testing.T) {
	s, _, _ := newTestSession(t)
	tracks := makeTracks(4)

	for start := range tracks {
		require.NoError(t, s.SubmitQueue(tracks, start))

		require.NoError(t, s.PlayNext())
		require.NoError(t, s.PlayPrevious())
		assert.Equal(t, tracks[start], *s.CurrentTrack())

		require.NoError(t, s.PlayPrevious())
		require.NoError(t, s.PlayNext())
		assert.Equal(t, tracks[start], *s.CurrentTrack())
	}
}

func TestPlayPrevious_FromFirstWrapsToLast(t *testing.T) {
	s, _, _ := newTestSession(t)
	tracks := makeTracks(3)
	require.NoError(t, s.SubmitQueue(tracks, 0))

	require.NoError(t, s.PlayPrevious())

	assert.Equal(t, tracks[2], *s.CurrentTrack())
}

func TestPlayNext_FromPausedPlays(t *testing.T) {
	s, _, _ := newTestSession(t)
	require.NoError(t, s.SubmitQueue(makeTracks(2), 0))
	require.NoError(t, s.PlayPause())

	require.NoError(t, s.PlayNext())

	assert.Equal(t, StatePlaying, s.State())
}

func TestNavigation_EmptyQueueIsNoop(t *testing.T) {
	s, engine, rec := newTestSession(t)

	require.NoError(t, s.PlayNext())
	require.NoError(t, s.PlayPrevious())

	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.CurrentTrack())
	assert.Empty(t, engine.PrepareCalls())
	assert.Empty(t, rec.Events())
}

func TestNavigation_OneLiveInstance(t *testing.T) {
	s, engine, _ := newTestSession(t)
	require.NoError(t, s.SubmitQueue(makeTracks(3), 0))

	for range 5 {
		require.NoError(t, s.PlayNext())
		require.NoError(t, s.PlayPrevious())
		require.NoError(t, s.PlayNext())
		assert.Equal(t, 1, engine.Live())
	}
	assert.Len(t, engine.Instances(), 16)
}

func TestSeekTo(t *testing.T) {
	s, engine, _ := newTestSession(t)
	tracks := makeTracks(1)
	engine.SetDuration(tracks[0].Source, time.Minute)

	require.NoError(t, s.SeekTo(10*time.Second), "seek without a track is a no-op")

	require.NoError(t, s.SubmitQueue(tracks, 0))
	require.NoError(t, s.SeekTo(30*time.Second))

	assert.Equal(t, []time.Duration{30 * time.Second}, engine.Last().SeekCalls())
	assert.Equal(t, 30*time.Second, s.Position())
	assert.Equal(t, time.Minute, s.Duration())
}

func TestDuration_FallsBackToCatalog(t *testing.T) {
	s, _, _ := newTestSession(t)
	require.NoError(t, s.SubmitQueue(makeTracks(1), 0))

	assert.Equal(t, 3*time.Minute, s.Duration())
}

func TestStop_KeepsTrackAndRestarts(t *testing.T) {
	s, engine, rec := newTestSession(t)
	tracks := makeTracks(2)
	require.NoError(t, s.SubmitQueue(tracks, 1))
	rec.Reset()

	require.NoError(t, s.Stop())

	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, tracks[1], *s.CurrentTrack())
	assert.Equal(t, 0, engine.Live())
	assert.Equal(t, []string{"playing:false", "dismiss"}, rec.Events())

	require.NoError(t, s.PlayPause())

	assert.Equal(t, StatePlaying, s.State())
	assert.Equal(t, tracks[1], *s.CurrentTrack())
	assert.Equal(t, []string{tracks[1].Source, tracks[1].Source}, engine.PrepareCalls())
}

func TestObservers_LastRegistrantWins(t *testing.T) {
	s, _, _ := newTestSession(t)
	var first, second []string
	s.OnTrackChanged(func(tr catalog.Track) { first = append(first, tr.Title) })
	s.OnTrackChanged(func(tr catalog.Track) { second = append(second, tr.Title) })

	require.NoError(t, s.SubmitQueue(makeTracks(1), 0))

	assert.Empty(t, first)
	assert.Equal(t, []string{"Track 0"}, second)
}

func TestObservers_NilClears(t *testing.T) {
	s, _, rec := newTestSession(t)
	s.OnTrackChanged(nil)
	s.OnPlayStateChanged(nil)

	require.NoError(t, s.SubmitQueue(makeTracks(1), 0))

	assert.Equal(t, []string{"post:Track 0"}, rec.Events())
}

func TestNotification_Content(t *testing.T) {
	s, _, rec := newTestSession(t)
	tracks := makeTracks(1)
	tracks[0].Artwork = "/music/cover.jpg"
	require.NoError(t, s.SubmitQueue(tracks, 0))

	n := rec.LastPosted()
	assert.Equal(t, "Track 0", n.Title)
	assert.Equal(t, "Artist 0", n.Text)
	assert.Equal(t, "/music/cover.jpg", n.Artwork)
	assert.True(t, n.Ongoing)
	assert.Equal(t, IconPlaying, n.Icon)
	assert.Equal(t, []Action{
		{ID: ActionPrev, Label: "Previous"},
		{ID: ActionPlayPause, Label: "Pause"},
		{ID: ActionNext, Label: "Next"},
	}, n.Actions)

	require.NoError(t, s.PlayPause())

	n = rec.LastPosted()
	assert.False(t, n.Ongoing)
	assert.Equal(t, IconPaused, n.Icon)
	assert.Equal(t, "Play", n.Actions[1].Label)
}

func TestDispatch(t *testing.T) {
	s, _, _ := newTestSession(t)
	tracks := makeTracks(3)
	require.NoError(t, s.SubmitQueue(tracks, 0))

	require.NoError(t, s.Dispatch(ActionNext))
	assert.Equal(t, tracks[1], *s.CurrentTrack())

	require.NoError(t, s.Dispatch(ActionPrev))
	require.NoError(t, s.Dispatch(ActionPrev))
	assert.Equal(t, tracks[2], *s.CurrentTrack())

	require.NoError(t, s.Dispatch(ActionPlayPause))
	assert.Equal(t, StatePaused, s.State())

	err := s.Dispatch("play_pause")
	require.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, StatePaused, s.State())
}

func TestPrepareFailure_SkipsToNextPlayable(t *testing.T) {
	s, engine, rec := newTestSession(t)
	tracks := makeTracks(3)
	boom := errors.New("corrupt")
	engine.SetPrepareError(tracks[1].Source, boom)

	require.NoError(t, s.SubmitQueue(tracks, 1))

	assert.Equal(t, tracks[2], *s.CurrentTrack())
	assert.True(t, s.IsPlaying())
	errs := rec.Errors()
	require.Len(t, errs, 1)
	var perr *PrepareError
	require.ErrorAs(t, errs[0], &perr)
	assert.Equal(t, tracks[1], perr.Track)
	assert.ErrorIs(t, perr, boom)
}

func TestPrepareFailure_NothingPlayable(t *testing.T) {
	s, engine, rec := newTestSession(t)
	tracks := makeTracks(3)
	for _, tr := range tracks {
		engine.SetPrepareError(tr.Source, errors.New("corrupt"))
	}

	err := s.SubmitQueue(tracks, 0)

	require.ErrorIs(t, err, ErrNoPlayableTrack)
	var perr *PrepareError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.CurrentTrack())
	assert.Len(t, engine.PrepareCalls(), 3, "at most one full cycle")
	assert.Len(t, rec.Errors(), 3)
}

func TestPrepareFailure_StopPolicy(t *testing.T) {
	s, engine, rec := newTestSession(t, WithPolicy(StopOnError))
	tracks := makeTracks(3)
	require.NoError(t, s.SubmitQueue(tracks, 0))
	engine.SetPrepareError(tracks[1].Source, errors.New("corrupt"))
	rec.Reset()

	err := s.PlayNext()

	var perr *PrepareError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, tracks[1], perr.Track)
	assert.NotErrorIs(t, err, ErrNoPlayableTrack)
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, tracks[1], *s.CurrentTrack())
	assert.Equal(t, 0, engine.Live())
	assert.Equal(t, []string{"error", "playing:false", "dismiss"}, rec.Events())
}

func TestCompletion_AdvancesLikeNext(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		engine := player.NewMock()
		s := New(engine)
		defer s.Close()
		tracks := makeTracks(3)
		require.NoError(t, s.SubmitQueue(tracks, 2))

		engine.Last().Finish()
		synctest.Wait()

		assert.Equal(t, tracks[0], *s.CurrentTrack())
		assert.True(t, s.IsPlaying())
		assert.Equal(t, 1, engine.Live())
	})
}

func TestCompletion_StaleSignalIgnored(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		engine := player.NewMock()
		s := New(engine)
		defer s.Close()
		tracks := makeTracks(3)
		require.NoError(t, s.SubmitQueue(tracks, 0))
		stale := engine.Last()

		require.NoError(t, s.PlayNext())
		stale.Finish()
		synctest.Wait()

		assert.Equal(t, tracks[1], *s.CurrentTrack())
		assert.Len(t, engine.Instances(), 2)
	})
}

func TestCompletion_AfterStopIgnored(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		engine := player.NewMock()
		s := New(engine)
		defer s.Close()
		require.NoError(t, s.SubmitQueue(makeTracks(2), 0))
		inst := engine.Last()

		require.NoError(t, s.Stop())
		inst.Finish()
		synctest.Wait()

		assert.Equal(t, StateIdle, s.State())
		assert.Len(t, engine.PrepareCalls(), 1)
	})
}

func TestConcurrentCommands(t *testing.T) {
	s, engine, _ := newTestSession(t)
	require.NoError(t, s.SubmitQueue(makeTracks(5), 0))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = s.PlayNext()
			} else {
				_ = s.PlayPrevious()
			}
			_ = s.Status()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, engine.Live())
	assert.Equal(t, 0, s.Status().Index, "ten forward and ten back cancel out")
}

func TestClose(t *testing.T) {
	s, engine, rec := newTestSession(t)
	require.NoError(t, s.SubmitQueue(makeTracks(2), 0))
	rec.Reset()

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.Equal(t, 0, engine.Live())
	assert.Contains(t, rec.Events(), "dismiss")
	assert.ErrorIs(t, s.PlayNext(), ErrClosed)
	assert.ErrorIs(t, s.SubmitQueue(makeTracks(1), 0), ErrClosed)
	assert.Nil(t, s.CurrentTrack())
	assert.Equal(t, StateIdle, s.State())

	select {
	case <-s.Done():
	default:
		t.Fatal("Done() not closed after Close")
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, SkipUnplayable, p)

	p, err = ParsePolicy("stop")
	require.NoError(t, err)
	assert.Equal(t, StopOnError, p)

	_, err = ParsePolicy("retry")
	require.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "Playing", StatePlaying.String())
	assert.Equal(t, "Paused", StatePaused.String())
	assert.Equal(t, "Unknown", State(42).String())
	assert.False(t, StateIdle.IsActive())
	assert.True(t, StatePaused.IsActive())
}
