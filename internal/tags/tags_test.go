package tags

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMusicFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.MP3", true},
		{"/a/b/song.flac", true},
		{"song.ogg", true},
		{"song.wav", true},
		{"song.m4a", false},
		{"cover.jpg", false},
		{"mp3", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMusicFile(tt.path))
		})
	}
}

func TestTaglibTags(t *testing.T) {
	tags := taglibTags{
		"TITLE":       {"Song", "Alt"},
		"TRACKNUMBER": {"3/12"},
		"EMPTY":       {},
	}

	assert.Equal(t, "Song", tags.get("TITLE"))
	assert.Equal(t, "Song", tags.get("MISSING", "TITLE"))
	assert.Empty(t, tags.get("EMPTY"))
	assert.Equal(t, 3, tags.number("TRACKNUMBER"))
	assert.Equal(t, 0, tags.number("MISSING"))
}

func TestLeadingNumber(t *testing.T) {
	assert.Equal(t, 7, leadingNumber("7"))
	assert.Equal(t, 7, leadingNumber(" 7 /10"))
	assert.Equal(t, 0, leadingNumber("x"))
	assert.Equal(t, 0, leadingNumber(""))
}

func TestTagTrim(t *testing.T) {
	tag := &Tag{Title: "  Song ", Artist: "\tBand", Album: " ", Genre: "Rock"}

	tag.trim()

	assert.Equal(t, "Song", tag.Title)
	assert.Equal(t, "Band", tag.Artist)
	assert.Empty(t, tag.Album)
	assert.Equal(t, "Rock", tag.Genre)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.mp3"))

	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadDuration_Unsupported(t *testing.T) {
	_, err := ReadDuration("/music/song.m4a")

	require.Error(t, err)
}

func TestStreamInfoDuration(t *testing.T) {
	// 44100 Hz, 16 bit, stereo, 441000 samples (10 s)
	data := make([]byte, 34)
	rate := 44100
	data[10] = byte(rate >> 12)
	data[11] = byte(rate >> 4)
	data[12] = byte(rate<<4) | 0x02
	total := int64(441000)
	data[13] = 0xF0 | byte(total>>32)
	data[14] = byte(total >> 24)
	data[15] = byte(total >> 16)
	data[16] = byte(total >> 8)
	data[17] = byte(total)

	d, ok := streamInfoDuration(data)

	require.True(t, ok)
	assert.Equal(t, 10*time.Second, d)

	_, ok = streamInfoDuration(data[:10])
	assert.False(t, ok)

	_, ok = streamInfoDuration(make([]byte, 34))
	assert.False(t, ok, "zero sample rate")
}

func TestSkipID3v2(t *testing.T) {
	header := []byte{'I', 'D', '3', 3, 0, 0, 0, 0, 0, 4}
	r := bytes.NewReader(append(header, []byte("xxxxfLaC")...))

	require.NoError(t, skipID3v2(r))

	rest, _ := io.ReadAll(r)
	assert.Equal(t, "fLaC", string(rest))
}

func TestFindArtwork(t *testing.T) {
	dir := t.TempDir()
	track := filepath.Join(dir, "01.mp3")
	require.NoError(t, os.WriteFile(track, nil, 0o600))

	assert.Empty(t, FindArtwork(track))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Folder.PNG"), []byte("png"), 0o600))
	assert.Equal(t, filepath.Join(dir, "Folder.PNG"), FindArtwork(track))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("jpg"), 0o600))
	assert.Equal(t, filepath.Join(dir, "cover.jpg"), FindArtwork(track), "cover wins over folder")
}

func TestFindArtwork_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "cover.jpg"), 0o755))

	assert.Empty(t, FindArtwork(filepath.Join(dir, "song.flac")))
}
