package player

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// OutputSampleRate is the fixed rate the speaker runs at. Sources with a
// different rate are resampled.
const OutputSampleRate beep.SampleRate = 44100

const seekUnmuteDelay = 100 * time.Millisecond

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(OutputSampleRate, OutputSampleRate.N(time.Second/10))
	})
	return speakerErr
}

// Beep is the Engine backed by the system audio device.
type Beep struct{}

// NewBeep returns an engine that plays through the default output device.
func NewBeep() *Beep {
	return &Beep{}
}

// Prepare decodes source and returns a paused, unstarted instance.
func (b *Beep) Prepare(source string) (Instance, error) {
	if !Supported(source) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(source))
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}

	stream, format, err := decode(f, strings.ToLower(filepath.Ext(source)))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(source), err)
	}

	if err := initSpeaker(); err != nil {
		stream.Close()
		f.Close()
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	var out beep.Streamer = stream
	if format.SampleRate != OutputSampleRate {
		out = beep.Resample(4, format.SampleRate, OutputSampleRate, stream)
	}
	ctrl := &beep.Ctrl{Streamer: out, Paused: true}

	return &beepInstance{
		file:     f,
		stream:   stream,
		format:   format,
		ctrl:     ctrl,
		volume:   &effects.Volume{Streamer: ctrl, Base: 2},
		finished: make(chan struct{}),
	}, nil
}

func decode(f *os.File, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext {
	case extMP3:
		return decodeGoMP3(f)
	case extFLAC:
		// Some taggers prepend an ID3v2 block the FLAC decoder chokes on.
		if err := skipID3v2(f); err != nil {
			return nil, beep.Format{}, err
		}
		return flac.Decode(f)
	case extOGG:
		return vorbis.Decode(f)
	case extWAV:
		return wav.Decode(f)
	default:
		return nil, beep.Format{}, ErrUnsupportedFormat
	}
}

// skipID3v2 positions r after a leading ID3v2 tag, or at the start when
// there is none.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n < len(header) {
		_, serr := r.Seek(0, io.SeekStart)
		return serr
	}
	if string(header[:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Syncsafe integer: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}

type beepInstance struct {
	mu       sync.Mutex
	file     *os.File
	stream   beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	started  bool
	released bool
	gone     atomic.Bool

	finished   chan struct{}
	finishOnce sync.Once
}

func (i *beepInstance) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.started || i.released {
		return
	}
	i.started = true

	speaker.Lock()
	i.ctrl.Paused = false
	speaker.Unlock()

	speaker.Play(beep.Seq(i.volume, beep.Callback(i.markFinished)))
}

// markFinished runs on the speaker goroutine with the speaker lock held.
func (i *beepInstance) markFinished() {
	if i.gone.Load() {
		return
	}
	i.finishOnce.Do(func() { close(i.finished) })
}

func (i *beepInstance) Pause()  { i.setPaused(true) }
func (i *beepInstance) Resume() { i.setPaused(false) }

func (i *beepInstance) setPaused(paused bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.started || i.released {
		return
	}
	speaker.Lock()
	i.ctrl.Paused = paused
	speaker.Unlock()
}

func (i *beepInstance) Playing() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.started || i.released {
		return false
	}
	select {
	case <-i.finished:
		return false
	default:
	}
	speaker.Lock()
	defer speaker.Unlock()
	return !i.ctrl.Paused
}

func (i *beepInstance) Position() time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.released {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return i.format.SampleRate.D(i.stream.Position())
}

func (i *beepInstance) Duration() time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.released {
		return 0
	}
	return i.format.SampleRate.D(i.stream.Len())
}

// SeekTo mutes around the jump so the buffered tail does not click.
func (i *beepInstance) SeekTo(pos time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.released {
		return
	}

	length := i.stream.Len()
	target := i.format.SampleRate.N(clamp(pos, i.format.SampleRate.D(length)))
	if length > 0 && target >= length {
		target = length - 1
	}

	speaker.Lock()
	i.volume.Silent = true
	_ = i.stream.Seek(target)
	speaker.Unlock()

	volume := i.volume
	time.AfterFunc(seekUnmuteDelay, func() {
		speaker.Lock()
		volume.Silent = false
		speaker.Unlock()
	})
}

func (i *beepInstance) Finished() <-chan struct{} {
	return i.finished
}

// Release stops output and frees the decoder. The finished channel stays
// open so a late completion cannot be mistaken for the next track's.
func (i *beepInstance) Release() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.released {
		return
	}
	i.released = true
	i.gone.Store(true)

	if i.started {
		speaker.Clear()
	}
	i.stream.Close()
	i.file.Close()
}
