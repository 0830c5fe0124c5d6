//go:build linux

package notify

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"
	notifyIcon          = "alarm-symbolic"
)

// dbusNotifier sends notifications via D-Bus.
type dbusNotifier struct {
	appName      string
	desktopEntry string
	conn         *dbus.Conn
	obj          dbus.BusObject
}

// New creates a Notifier that sends desktop notifications via D-Bus.
// desktopEntry is the application ID the daemon uses to group and theme the
// notifications. Returns a no-op notifier if D-Bus is unavailable.
func New(appName, desktopEntry string) (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return &stubNotifier{}, nil //nolint:nilerr // graceful fallback when D-Bus unavailable
	}

	obj := conn.Object(dbusNotifyDest, dbusNotifyPath)
	return &dbusNotifier{appName: appName, desktopEntry: desktopEntry, conn: conn, obj: obj}, nil
}

func (n *dbusNotifier) hints(notif Notification) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(notif.Urgency)),
	}
	if n.desktopEntry != "" {
		hints["desktop-entry"] = dbus.MakeVariant(n.desktopEntry)
	}
	if notif.Silent {
		hints["suppress-sound"] = dbus.MakeVariant(true)
	}
	return hints
}

// Notify sends a notification via D-Bus. A daemon that does not answer
// within callTimeout is treated as a failure.
func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	// Notify(app_name, replaces_id, icon, summary, body, actions, hints, timeout) -> id
	call := n.obj.CallWithContext(ctx,
		dbusNotifyInterface+".Notify",
		0,
		n.appName,
		notif.ReplacesID,
		notifyIcon,
		notif.Title,
		notif.Body,
		[]string{},
		n.hints(notif),
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, fmt.Errorf("notify: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Close withdraws a notification by ID.
func (n *dbusNotifier) Close(id uint32) error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	call := n.obj.CallWithContext(ctx, dbusNotifyInterface+".CloseNotification", 0, id)
	if call.Err != nil {
		return fmt.Errorf("close notification %d: %w", id, call.Err)
	}
	return nil
}
