package keymap

import (
	"strings"

	"github.com/samber/lo"
)

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "tracks", "playlists"
}

// All contains every key binding of the application.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionViewTracks, []string{"T"}, "Tracks", "global"},
	{ActionViewPlaylists, []string{"P"}, "Playlists", "global"},
	{ActionReloadCatalog, []string{"r"}, "Reload catalog", "global"},
	{ActionCreatePlaylist, []string{"c"}, "Create playlist", "global"},
	{ActionCancel, []string{"esc"}, "Back", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionNextTrack, []string{"n"}, "Next", "playback"},
	{ActionPrevTrack, []string{"p"}, "Previous", "playback"},
	{ActionSeekBack, []string{"left"}, "Seek back", "playback"},
	{ActionSeekForward, []string{"right"}, "Seek forward", "playback"},

	// Track list
	{ActionPlayFromHere, []string{"enter"}, "Play from here", "tracks"},
	{ActionAddToPlaylist, []string{"a"}, "Add to playlist", "tracks"},
	{ActionRemoveFromLibrary, []string{"x"}, "Remove from library", "tracks"},

	// Playlists
	{ActionPlayFromHere, []string{"enter"}, "Play / add here", "playlists"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	return lo.Filter(All, func(b Binding, _ int) bool {
		return b.Context == context
	})
}

// Help renders "key description" pairs for the given contexts on one line.
func Help(contexts ...string) string {
	var parts []string
	for _, ctx := range contexts {
		for _, b := range ByContext(ctx) {
			parts = append(parts, displayKey(b.Keys[0])+" "+strings.ToLower(b.Description))
		}
	}
	return strings.Join(parts, " · ")
}

func displayKey(key string) string {
	switch key {
	case " ":
		return "space"
	case "left":
		return "←"
	case "right":
		return "→"
	}
	return key
}
