// Package playback owns the long-lived playback session: the play queue, the
// single engine instance, and the transport notification.
//
// A Session is an actor. One goroutine owns all state; commands from the UI,
// the notification, MPRIS, and engine completion signals are serialized
// through one channel. Public methods block until the actor has handled them.
package playback

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/player"
	"github.com/llehouerou/tunedeck/internal/playlist"
)

// Session coordinates playback of one queue at a time.
type Session struct {
	cmds      chan func()
	done      chan struct{}
	closeOnce sync.Once

	// Everything below is owned by the actor goroutine.
	engine   player.Engine
	queue    *playlist.PlayingQueue
	state    State
	inst     player.Instance
	gen      uint64
	unwatch  chan struct{}
	exiting  bool
	policy   Policy
	notifier Notifier
	log      *slog.Logger

	onTrackChanged     func(catalog.Track)
	onPlayStateChanged func(bool)
	onError            func(error)
}

// Option configures a Session.
type Option func(*Session)

// WithPolicy sets the prepare-failure policy. The default is SkipUnplayable.
func WithPolicy(p Policy) Option {
	return func(s *Session) { s.policy = p }
}

// WithNotifier sets where the transport notification is posted.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// New starts a session over engine. Close must be called to stop it.
func New(engine player.Engine, opts ...Option) *Session {
	s := &Session{
		cmds:   make(chan func()),
		done:   make(chan struct{}),
		engine: engine,
		queue:  playlist.NewQueue(),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

func (s *Session) run() {
	defer close(s.done)
	for cmd := range s.cmds {
		cmd()
		if s.exiting {
			return
		}
	}
}

// do runs fn on the actor and waits for its result.
func (s *Session) do(fn func() error) error {
	reply := make(chan error, 1)
	select {
	case s.cmds <- func() { reply <- fn() }:
		return <-reply
	case <-s.done:
		return ErrClosed
	}
}

// ask runs a query on the actor. A closed session yields the zero value.
func ask[T any](s *Session, fn func() T) T {
	var out T
	_ = s.do(func() error {
		out = fn()
		return nil
	})
	return out
}

// SubmitQueue replaces the queue and starts playing tracks[start].
func (s *Session) SubmitQueue(tracks []catalog.Track, start int) error {
	if len(tracks) == 0 || start < 0 || start >= len(tracks) {
		return fmt.Errorf("%w: %d tracks, start %d", ErrInvalidQueue, len(tracks), start)
	}
	tracks = append([]catalog.Track(nil), tracks...)
	return s.do(func() error {
		s.queue.Replace(tracks, start)
		return s.load()
	})
}

// PlayPause toggles between playing and paused. From idle with a current
// track it prepares that track again. Without a track it does nothing.
func (s *Session) PlayPause() error {
	return s.do(func() error {
		switch s.state {
		case StatePlaying:
			s.inst.Pause()
			s.setState(StatePaused)
		case StatePaused:
			s.inst.Resume()
			s.setState(StatePlaying)
		case StateIdle:
			if s.queue.Current() == nil {
				return nil
			}
			return s.load()
		}
		return nil
	})
}

// PlayNext moves to the next track, wrapping after the last one.
func (s *Session) PlayNext() error {
	return s.do(func() error {
		if s.queue.Next() == nil {
			return nil
		}
		return s.load()
	})
}

// PlayPrevious moves to the previous track, wrapping before the first one.
func (s *Session) PlayPrevious() error {
	return s.do(func() error {
		if s.queue.Previous() == nil {
			return nil
		}
		return s.load()
	})
}

// SeekTo moves the playback position of the loaded track.
func (s *Session) SeekTo(pos time.Duration) error {
	return s.do(func() error {
		if s.inst != nil {
			s.inst.SeekTo(pos)
		}
		return nil
	})
}

// Stop releases the engine and goes idle. The queue and current track are
// kept, so PlayPause restarts the same track.
func (s *Session) Stop() error {
	return s.do(func() error {
		s.idle(true)
		return nil
	})
}

// Close releases the engine, dismisses the notification and stops the actor.
// It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		_ = s.do(func() error {
			s.idle(true)
			s.exiting = true
			return nil
		})
	})
	<-s.done
	return nil
}

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// CurrentTrack returns a copy of the track under the cursor, or nil.
func (s *Session) CurrentTrack() *catalog.Track {
	return ask(s, s.queue.Current)
}

func (s *Session) Position() time.Duration {
	return ask(s, s.position)
}

func (s *Session) Duration() time.Duration {
	return ask(s, s.duration)
}

func (s *Session) IsPlaying() bool {
	return s.State() == StatePlaying
}

func (s *Session) State() State {
	return ask(s, func() State { return s.state })
}

// Queue returns a copy of the queued tracks.
func (s *Session) Queue() []catalog.Track {
	return ask(s, s.queue.Tracks)
}

// Status returns all observable fields from one actor turn.
func (s *Session) Status() Status {
	return ask(s, func() Status {
		return Status{
			Track:    s.queue.Current(),
			State:    s.state,
			Position: s.position(),
			Duration: s.duration(),
			Index:    s.queue.CurrentIndex(),
			QueueLen: s.queue.Len(),
		}
	})
}

// Observers hold one callback each; registering replaces the previous one
// and nil clears it. Callbacks run on the actor goroutine and must not call
// back into the session synchronously.

func (s *Session) OnTrackChanged(fn func(catalog.Track)) {
	_ = s.do(func() error {
		s.onTrackChanged = fn
		return nil
	})
}

func (s *Session) OnPlayStateChanged(fn func(playing bool)) {
	_ = s.do(func() error {
		s.onPlayStateChanged = fn
		return nil
	})
}

func (s *Session) OnError(fn func(error)) {
	_ = s.do(func() error {
		s.onError = fn
		return nil
	})
}

// Actor-side helpers. Never call these from outside a command.

func (s *Session) position() time.Duration {
	if s.inst == nil {
		return 0
	}
	return s.inst.Position()
}

func (s *Session) duration() time.Duration {
	if s.inst != nil {
		if d := s.inst.Duration(); d > 0 {
			return d
		}
	}
	if t := s.queue.Current(); t != nil {
		return t.Duration
	}
	return 0
}

// load releases the current instance and prepares the track under the
// cursor. Under SkipUnplayable, failing tracks are skipped in queue order
// for at most one full cycle.
func (s *Session) load() error {
	s.release()

	attempts := 1
	if s.policy == SkipUnplayable {
		attempts = s.queue.Len()
	}

	var last *PrepareError
	for range attempts {
		track := s.queue.Current()
		inst, err := s.engine.Prepare(track.Source)
		if err == nil {
			s.begin(inst, *track)
			return nil
		}

		last = &PrepareError{Track: *track, Err: err}
		s.log.Warn("prepare failed", "source", track.Source, "title", track.Title, "err", err)
		s.emitError(last)

		if s.policy == StopOnError {
			s.idle(true)
			return last
		}
		s.queue.Next()
	}

	s.log.Error("nothing in queue is playable", "tracks", s.queue.Len())
	s.idle(false)
	return &PrepareError{Track: last.Track, Err: fmt.Errorf("%w: %w", ErrNoPlayableTrack, last.Err)}
}

func (s *Session) begin(inst player.Instance, track catalog.Track) {
	s.gen++
	s.inst = inst
	s.unwatch = make(chan struct{})
	inst.Start()
	s.watch(inst, s.gen, s.unwatch)

	s.log.Info("playing", "title", track.Title, "artist", track.Artist, "index", s.queue.CurrentIndex())
	s.state = StatePlaying
	if s.onTrackChanged != nil {
		s.onTrackChanged(track)
	}
	s.emitPlayState(true)
	s.post()
}

// watch forwards the instance's completion to the actor, tagged with its
// generation.
func (s *Session) watch(inst player.Instance, gen uint64, unwatch <-chan struct{}) {
	go func() {
		select {
		case <-inst.Finished():
		case <-unwatch:
			return
		case <-s.done:
			return
		}
		select {
		case s.cmds <- func() { s.completed(gen) }:
		case <-unwatch:
		case <-s.done:
		}
	}()
}

// completed advances like PlayNext unless the signal is stale.
func (s *Session) completed(gen uint64) {
	if gen != s.gen || s.inst == nil {
		s.log.Debug("ignoring stale completion", "gen", gen, "current", s.gen)
		return
	}
	s.log.Debug("track finished", "index", s.queue.CurrentIndex())
	s.queue.Next()
	if err := s.load(); err != nil {
		s.log.Warn("advance after completion", "err", err)
	}
}

func (s *Session) release() {
	if s.inst == nil {
		return
	}
	close(s.unwatch)
	s.inst.Release()
	s.inst = nil
	s.unwatch = nil
}

// idle releases the instance and enters StateIdle. Without keepTrack the
// queue is emptied as well.
func (s *Session) idle(keepTrack bool) {
	s.release()
	if !keepTrack {
		s.queue.Clear()
	}
	if s.state == StateIdle {
		return
	}
	wasPlaying := s.state == StatePlaying
	s.state = StateIdle
	if wasPlaying {
		s.emitPlayState(false)
	}
	if s.notifier != nil {
		if err := s.notifier.Dismiss(); err != nil {
			s.log.Warn("dismiss notification", "err", err)
		}
	}
}

// setState handles the play/pause toggle.
func (s *Session) setState(st State) {
	s.state = st
	s.emitPlayState(st == StatePlaying)
	s.post()
}

func (s *Session) emitPlayState(playing bool) {
	if s.onPlayStateChanged != nil {
		s.onPlayStateChanged(playing)
	}
}

func (s *Session) emitError(err error) {
	if s.onError != nil {
		s.onError(err)
	}
}

func (s *Session) post() {
	track := s.queue.Current()
	if s.notifier == nil || track == nil {
		return
	}
	if err := s.notifier.Post(NewTransport(*track, s.state == StatePlaying)); err != nil {
		s.log.Warn("post notification", "err", err)
	}
}
