package playback

import (
	"fmt"

	"github.com/llehouerou/tunedeck/internal/catalog"
)

// Transport actions carried by the notification buttons.
const (
	ActionPlayPause = "PLAY_PAUSE"
	ActionNext      = "NEXT"
	ActionPrev      = "PREV"
)

// Freedesktop icon names for the notification.
const (
	IconPlaying = "media-playback-start"
	IconPaused  = "media-playback-pause"
)

// Action is one notification button.
type Action struct {
	ID    string
	Label string
}

// Transport describes the persistent now-playing notification.
type Transport struct {
	Title   string
	Text    string
	Icon    string
	Artwork string
	Actions []Action
	// Ongoing notifications cannot be dismissed by the user.
	Ongoing bool
}

// Notifier shows the transport notification outside the app.
type Notifier interface {
	Post(t Transport) error
	Dismiss() error
}

// NewTransport builds the notification for track.
func NewTransport(track catalog.Track, playing bool) Transport {
	icon, label := IconPaused, "Play"
	if playing {
		icon, label = IconPlaying, "Pause"
	}
	return Transport{
		Title:   track.Title,
		Text:    track.Artist,
		Icon:    icon,
		Artwork: track.Artwork,
		Actions: []Action{
			{ID: ActionPrev, Label: "Previous"},
			{ID: ActionPlayPause, Label: label},
			{ID: ActionNext, Label: "Next"},
		},
		Ongoing: playing,
	}
}

// Dispatch routes a notification action to the matching command.
func (s *Session) Dispatch(action string) error {
	switch action {
	case ActionPlayPause:
		return s.PlayPause()
	case ActionNext:
		return s.PlayNext()
	case ActionPrev:
		return s.PlayPrevious()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}
