// Package notify provides the desktop transport notification: D-Bus on
// Linux, a plain toast elsewhere.
package notify

const appName = "tunedeck"

// Urgency is the freedesktop notification urgency level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Timeouts in ms.
const (
	TimeoutDefault int32 = -1
	TimeoutNever   int32 = 0
)

// Action is a button on the notification. Key is reported back when pressed.
type Action struct {
	Key   string
	Label string
}

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Actions    []Action
	Resident   bool    // stays after an action is invoked
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
	// OnAction registers the handler for action button presses, replacing
	// any previous one. Platforms without actions never call it.
	OnAction(fn func(id uint32, key string))
	// Shutdown releases the connection.
	Shutdown() error
}

// Disabled returns a notifier that drops everything.
func Disabled() Notifier {
	return nopNotifier{}
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) (uint32, error)  { return 0, nil }
func (nopNotifier) Close(uint32) error                   { return nil }
func (nopNotifier) OnAction(func(id uint32, key string)) {}
func (nopNotifier) Shutdown() error                      { return nil }
