//go:build linux

package notify

import (
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"
	actionInvokedSignal = dbusNotifyInterface + ".ActionInvoked"
)

// dbusNotifier sends notifications via D-Bus and listens for ActionInvoked.
type dbusNotifier struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	signals chan *dbus.Signal

	mu       sync.Mutex
	onAction func(id uint32, key string)
}

// New creates a Notifier that sends desktop notifications via D-Bus.
// Returns a no-op notifier if D-Bus is unavailable.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return Disabled(), nil //nolint:nilerr // graceful fallback when D-Bus unavailable
	}

	n := &dbusNotifier{
		conn:    conn,
		obj:     conn.Object(dbusNotifyDest, dbusNotifyPath),
		signals: make(chan *dbus.Signal, 16),
	}

	err = conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbusNotifyPath),
		dbus.WithMatchInterface(dbusNotifyInterface),
		dbus.WithMatchMember("ActionInvoked"),
	)
	if err != nil {
		return nil, err
	}
	conn.Signal(n.signals)
	go n.listen()

	return n, nil
}

func (n *dbusNotifier) listen() {
	for sig := range n.signals {
		if sig.Name != actionInvokedSignal || len(sig.Body) != 2 {
			continue
		}
		id, ok1 := sig.Body[0].(uint32)
		key, ok2 := sig.Body[1].(string)
		if !ok1 || !ok2 {
			continue
		}

		n.mu.Lock()
		fn := n.onAction
		n.mu.Unlock()
		if fn != nil {
			fn(id, key)
		}
	}
}

// Notify sends a notification via D-Bus.
func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(appName),
		"resident":      dbus.MakeVariant(notif.Resident),
	}
	if notif.Resident {
		hints["transient"] = dbus.MakeVariant(false)
	}

	// Actions are flattened key/label pairs.
	actions := make([]string, 0, 2*len(notif.Actions))
	for _, a := range notif.Actions {
		actions = append(actions, a.Key, a.Label)
	}

	// Notify(app_name, replaces_id, icon, summary, body, actions, hints, timeout) -> id
	call := n.obj.Call(
		dbusNotifyInterface+".Notify",
		0,
		"Tunedeck",
		notif.ReplacesID,
		notif.Icon,
		notif.Title,
		notif.Body,
		actions,
		hints,
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, call.Err
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Close closes a notification by ID.
func (n *dbusNotifier) Close(id uint32) error {
	return n.obj.Call(dbusNotifyInterface+".CloseNotification", 0, id).Err
}

func (n *dbusNotifier) OnAction(fn func(id uint32, key string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onAction = fn
}

// Shutdown stops the action listener. The shared session bus stays open.
func (n *dbusNotifier) Shutdown() error {
	n.conn.RemoveSignal(n.signals)
	close(n.signals)
	return n.conn.RemoveMatchSignal(
		dbus.WithMatchObjectPath(dbusNotifyPath),
		dbus.WithMatchInterface(dbusNotifyInterface),
		dbus.WithMatchMember("ActionInvoked"),
	)
}
