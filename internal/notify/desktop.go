package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	method     = busName + ".Notify"
)

// Desktop sends notifications to the freedesktop notification daemon on
// the session bus.
type Desktop struct {
	obj dbus.BusObject
	app string
	log *zap.SugaredLogger
}

// NewDesktop connects to the session bus. app is shown as the sender.
func NewDesktop(app string, logger *zap.SugaredLogger) (*Desktop, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return newDesktop(conn.Object(busName, objectPath), app, logger), nil
}

func newDesktop(obj dbus.BusObject, app string, logger *zap.SugaredLogger) *Desktop {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Desktop{
		obj: obj,
		app: app,
		log: logger.Named("notify"),
	}
}

// Show posts a notification without waiting for the daemon's reply.
// Send errors are logged and dropped.
func (d *Desktop) Show(title, body, icon string) {
	call := d.obj.Go(method, dbus.FlagNoReplyExpected, nil,
		d.app,                     // app_name
		uint32(0),                 // replaces_id
		icon,                      // app_icon
		title,                     // summary
		body,                      // body
		[]string{},                // actions
		map[string]dbus.Variant{}, // hints
		int32(-1),                 // expire_timeout: server default
	)
	if call.Err != nil {
		d.log.Warnw("Failed to send notification", "title", title, "error", call.Err)
		return
	}
	d.log.Debugw("Sent notification", "title", title)
}
