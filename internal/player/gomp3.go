package player

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// go-mp3 always decodes to interleaved 16-bit stereo.
const mp3FrameBytes = 4

var errMP3SampleRate = errors.New("mp3: invalid sample rate")

// mp3Stream adapts go-mp3 to beep.StreamSeekCloser. It is used instead of
// beep's own mp3 package because go-mp3 seeks by sample.
type mp3Stream struct {
	dec    *mp3.Decoder
	src    io.Closer
	buf    []byte
	err    error
	length int
}

func decodeGoMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	dec, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	rate := dec.SampleRate()
	if rate <= 0 {
		return nil, beep.Format{}, errMP3SampleRate
	}

	length := max(int(dec.SampleCount()), 0)
	s := &mp3Stream{dec: dec, src: rc, length: length}
	return s, beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 2, Precision: 2}, nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}

	want := len(samples) * mp3FrameBytes
	if cap(s.buf) < want {
		s.buf = make([]byte, want)
	}
	buf := s.buf[:want]

	got, err := io.ReadFull(s.dec, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = err
		return 0, false
	}

	frames := got / mp3FrameBytes
	for i := range frames {
		frame := buf[i*mp3FrameBytes:]
		samples[i][0] = pcm16(frame[0:2])
		samples[i][1] = pcm16(frame[2:4])
	}
	return frames, frames > 0
}

func pcm16(b []byte) float64 {
	return float64(int16(binary.LittleEndian.Uint16(b))) / 32768 //nolint:gosec // pcm sample
}

func (s *mp3Stream) Err() error    { return s.err }
func (s *mp3Stream) Len() int      { return s.length }
func (s *mp3Stream) Position() int { return int(s.dec.SamplePosition()) }

func (s *mp3Stream) Seek(p int) error {
	p = min(max(p, 0), s.length)
	if err := s.dec.SeekToSample(int64(p)); err != nil {
		return err
	}
	s.err = nil
	return nil
}

func (s *mp3Stream) Close() error {
	return s.src.Close()
}
