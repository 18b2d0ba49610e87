//go:build !linux

package notify

import "github.com/gen2brain/beeep"

// toastNotifier shows a plain notification without buttons.
type toastNotifier struct{}

// New returns a beeep-backed notifier on non-Linux platforms.
func New() (Notifier, error) {
	beeep.AppName = "Tunedeck"
	return toastNotifier{}, nil
}

// Notify shows a toast. Toasts cannot be replaced or closed, so the
// returned ID is always 0.
func (toastNotifier) Notify(n Notification) (uint32, error) {
	return 0, beeep.Notify(n.Title, n.Body, n.Icon)
}

func (toastNotifier) Close(uint32) error                   { return nil }
func (toastNotifier) OnAction(func(id uint32, key string)) {}
func (toastNotifier) Shutdown() error                      { return nil }
