package mpris

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/playback"
	"github.com/llehouerou/tunedeck/internal/tags"
)

// Controller is the part of playback.Session exposed over MPRIS.
type Controller interface {
	PlayPause() error
	PlayNext() error
	PlayPrevious() error
	SeekTo(pos time.Duration) error
	Stop() error
	Status() playback.Status
}

var _ Controller = (*playback.Session)(nil)

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Tunedeck", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	ctl Controller
}

func (p *playerAdapter) Next() error {
	return p.ctl.PlayNext()
}

func (p *playerAdapter) Previous() error {
	return p.ctl.PlayPrevious()
}

func (p *playerAdapter) Pause() error {
	if p.ctl.Status().State != playback.StatePlaying {
		return nil
	}
	return p.ctl.PlayPause()
}

func (p *playerAdapter) PlayPause() error {
	return p.ctl.PlayPause()
}

func (p *playerAdapter) Stop() error {
	return p.ctl.Stop()
}

func (p *playerAdapter) Play() error {
	if p.ctl.Status().State == playback.StatePlaying {
		return nil
	}
	return p.ctl.PlayPause()
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	st := p.ctl.Status()
	if st.Track == nil {
		return nil
	}
	pos := st.Position + time.Duration(offset)*time.Microsecond
	if pos < 0 {
		pos = 0
	}
	if st.Duration > 0 && pos >= st.Duration {
		return p.ctl.PlayNext()
	}
	return p.ctl.SeekTo(pos)
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	st := p.ctl.Status()
	if st.Track == nil || trackID != formatTrackID(st.Track.Source) {
		return nil
	}
	return p.ctl.SeekTo(time.Duration(position) * time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.ctl.Status().State {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateIdle:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	st := p.ctl.Status()
	if st.Track == nil {
		return types.Metadata{}, nil
	}
	return metadata(*st.Track, st.Duration), nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return p.ctl.Status().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

// Next and previous wrap around, so both are available whenever there is
// a queue.
func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.ctl.Status().QueueLen > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.ctl.Status().QueueLen > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.ctl.Status().Track != nil, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.ctl.Status().State.IsActive(), nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.ctl.Status().State.IsActive(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func metadata(track catalog.Track, length time.Duration) types.Metadata {
	if length <= 0 {
		length = track.Duration
	}
	artist := track.Artist
	if artist == "" {
		artist = catalog.UnknownArtist
	}
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(track.Source)),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   track.Title,
		Artist:  []string{artist},
		Album:   track.Album,
	}
	if art := artworkPath(track); art != "" {
		meta.ArtUrl = (&url.URL{Scheme: "file", Path: art}).String()
	}
	return meta
}

func artworkPath(track catalog.Track) string {
	if track.Artwork != "" {
		return track.Artwork
	}
	return tags.FindArtwork(track.Source)
}

func formatTrackID(source string) string {
	h := fnv.New64a()
	h.Write([]byte(source))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
