package player

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"/music/a.mp3", true},
		{"/music/a.MP3", true},
		{"/music/a.flac", true},
		{"/music/a.ogg", true},
		{"/music/a.wav", true},
		{"/music/a.m4a", false},
		{"/music/cover.jpg", false},
		{"/music/noext", false},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, Supported(tt.source))
		})
	}
}

func TestSkipID3v2(t *testing.T) {
	t.Run("no tag rewinds", func(t *testing.T) {
		r := bytes.NewReader([]byte("fLaC0123456789"))

		require.NoError(t, skipID3v2(r))

		pos, _ := r.Seek(0, io.SeekCurrent)
		assert.Equal(t, int64(0), pos)
	})

	t.Run("tag is skipped", func(t *testing.T) {
		// size 0x81 in syncsafe form: 0x01<<7 | 0x01
		header := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0x01, 0x01}
		data := append(header, make([]byte, 129)...)
		data = append(data, []byte("fLaC")...)
		r := bytes.NewReader(data)

		require.NoError(t, skipID3v2(r))

		rest, _ := io.ReadAll(r)
		assert.Equal(t, "fLaC", string(rest))
	})

	t.Run("short input rewinds", func(t *testing.T) {
		r := bytes.NewReader([]byte("ID3"))

		require.NoError(t, skipID3v2(r))

		pos, _ := r.Seek(0, io.SeekCurrent)
		assert.Equal(t, int64(0), pos)
	})
}

func TestBeepPrepare_Unsupported(t *testing.T) {
	_, err := NewBeep().Prepare("/music/track.m4a")

	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestBeepPrepare_MissingFile(t *testing.T) {
	_, err := NewBeep().Prepare(filepath.Join(t.TempDir(), "gone.mp3"))

	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestBeepPrepare_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wave file"), 0o600))

	inst, err := NewBeep().Prepare(path)

	require.Error(t, err)
	assert.Nil(t, inst)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, time.Duration(0), clamp(-time.Second, time.Minute))
	assert.Equal(t, time.Minute, clamp(2*time.Minute, time.Minute))
	assert.Equal(t, 30*time.Second, clamp(30*time.Second, time.Minute))
	assert.Equal(t, 2*time.Minute, clamp(2*time.Minute, 0), "unknown length does not clamp")
}

func TestMock_PrepareError(t *testing.T) {
	m := NewMock()
	boom := errors.New("boom")
	m.SetPrepareError("/bad.mp3", boom)

	_, err := m.Prepare("/bad.mp3")
	require.ErrorIs(t, err, boom)

	inst, err := m.Prepare("/good.mp3")
	require.NoError(t, err)
	assert.NotNil(t, inst)

	assert.Equal(t, []string{"/bad.mp3", "/good.mp3"}, m.PrepareCalls())
	assert.Len(t, m.Instances(), 1)
}

func TestMockInstance_Lifecycle(t *testing.T) {
	m := NewMock()
	m.SetDuration("/a.mp3", time.Minute)
	inst, err := m.Prepare("/a.mp3")
	require.NoError(t, err)

	assert.False(t, inst.Playing())
	inst.Start()
	assert.True(t, inst.Playing())
	inst.Pause()
	assert.False(t, inst.Playing())
	inst.Resume()
	assert.True(t, inst.Playing())

	inst.SeekTo(2 * time.Minute)
	assert.Equal(t, time.Minute, inst.Position())

	assert.Equal(t, 1, m.Live())
	inst.Release()
	assert.Equal(t, 0, m.Live())
	assert.False(t, inst.Playing())
}

func TestMockInstance_Finish(t *testing.T) {
	m := NewMock()
	inst, _ := m.Prepare("/a.mp3")
	inst.Start()

	m.Last().Finish()
	m.Last().Finish()

	select {
	case <-inst.Finished():
	default:
		t.Fatal("Finished() not closed after Finish")
	}
	assert.False(t, inst.Playing())
}
