// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit           Action = "quit"
	ActionViewTracks     Action = "view_tracks"
	ActionViewPlaylists  Action = "view_playlists"
	ActionReloadCatalog  Action = "reload_catalog"
	ActionCreatePlaylist Action = "create_playlist"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionStop        Action = "stop"
	ActionNextTrack   Action = "next_track"
	ActionPrevTrack   Action = "prev_track"
	ActionSeekForward Action = "seek_forward"
	ActionSeekBack    Action = "seek_back"

	// Track list actions
	ActionPlayFromHere      Action = "play_from_here"      // enter
	ActionAddToPlaylist     Action = "add_to_playlist"     // a
	ActionRemoveFromLibrary Action = "remove_from_library" // x
	ActionCancel            Action = "cancel"              // esc
)
