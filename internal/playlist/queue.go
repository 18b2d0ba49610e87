package playlist

import "github.com/llehouerou/tunedeck/internal/catalog"

// PlayingQueue wraps a Playlist with a cursor.
//
// The cursor is a valid index whenever the queue is non-empty and -1 when
// it is empty. Next and Previous wrap around.
type PlayingQueue struct {
	playlist     *Playlist
	currentIndex int
}

// NewQueue creates a new empty playing queue.
func NewQueue() *PlayingQueue {
	return &PlayingQueue{
		playlist:     NewPlaylist(),
		currentIndex: -1,
	}
}

// Current returns the track under the cursor, or nil if the queue is empty.
func (q *PlayingQueue) Current() *catalog.Track {
	return q.playlist.Track(q.currentIndex)
}

// CurrentIndex returns the cursor (-1 if empty).
func (q *PlayingQueue) CurrentIndex() int {
	return q.currentIndex
}

// Next moves the cursor forward, wrapping to the first track after the last.
// Returns nil on an empty queue.
func (q *PlayingQueue) Next() *catalog.Track {
	n := q.playlist.Len()
	if n == 0 {
		return nil
	}
	q.currentIndex = (q.currentIndex + 1) % n
	return q.Current()
}

// Previous moves the cursor back, wrapping to the last track before the first.
// Returns nil on an empty queue.
func (q *PlayingQueue) Previous() *catalog.Track {
	n := q.playlist.Len()
	if n == 0 {
		return nil
	}
	if q.currentIndex-1 < 0 {
		q.currentIndex = n - 1
	} else {
		q.currentIndex--
	}
	return q.Current()
}

// JumpTo sets the cursor. Returns nil and leaves the cursor alone if index
// is out of range.
func (q *PlayingQueue) JumpTo(index int) *catalog.Track {
	if index < 0 || index >= q.playlist.Len() {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// Replace swaps the whole queue and puts the cursor on start.
// An empty list or an out-of-range start leaves the queue empty.
func (q *PlayingQueue) Replace(tracks []catalog.Track, start int) *catalog.Track {
	q.Clear()
	if start < 0 || start >= len(tracks) {
		return nil
	}
	q.playlist.Add(tracks...)
	q.currentIndex = start
	return q.Current()
}

// Clear removes all tracks and resets the cursor.
func (q *PlayingQueue) Clear() {
	q.playlist.Clear()
	q.currentIndex = -1
}

// Tracks returns all tracks in the queue.
func (q *PlayingQueue) Tracks() []catalog.Track {
	return q.playlist.Tracks()
}

// Len returns the number of tracks in the queue.
func (q *PlayingQueue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *PlayingQueue) IsEmpty() bool {
	return q.playlist.Len() == 0
}
