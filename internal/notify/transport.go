package notify

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/llehouerou/tunedeck/internal/playback"
)

// Transport shows the session's now-playing notification through a
// Notifier, replacing it in place on every update.
type Transport struct {
	n   Notifier
	log *slog.Logger

	mu sync.Mutex
	id uint32
}

// NewTransport adapts n to playback.Notifier.
func NewTransport(n Notifier, log *slog.Logger) *Transport {
	if log == nil {
		log = slog.Default()
	}
	return &Transport{n: n, log: log}
}

// Post shows or updates the notification.
func (t *Transport) Post(tr playback.Transport) error {
	notif := Notification{
		Title:    tr.Title,
		Body:     tr.Text,
		Icon:     tr.Icon,
		Resident: tr.Ongoing,
		Timeout:  TimeoutDefault,
		Urgency:  UrgencyLow,
	}
	if tr.Artwork != "" {
		notif.Icon = tr.Artwork
	}
	if tr.Ongoing {
		notif.Timeout = TimeoutNever
	}
	for _, a := range tr.Actions {
		notif.Actions = append(notif.Actions, Action{Key: a.ID, Label: a.Label})
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	notif.ReplacesID = t.id
	id, err := t.n.Notify(notif)
	if err != nil {
		return err
	}
	t.id = id
	return nil
}

// Dismiss removes the notification if one is showing.
func (t *Transport) Dismiss() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.id == 0 {
		return nil
	}
	id := t.id
	t.id = 0
	return t.n.Close(id)
}

// Route sends button presses on the current notification to dispatch.
// Presses on older notifications and the implicit "default" action are
// ignored.
func (t *Transport) Route(dispatch func(action string) error) {
	t.n.OnAction(func(id uint32, key string) {
		t.mu.Lock()
		current := t.id
		t.mu.Unlock()
		if id == 0 || id != current || key == "default" {
			return
		}
		if err := dispatch(key); err != nil {
			if errors.Is(err, playback.ErrUnknownAction) {
				t.log.Debug("ignoring notification action", "key", key)
				return
			}
			t.log.Warn("notification action failed", "key", key, "err", err)
		}
	})
}

var _ playback.Notifier = (*Transport)(nil)
