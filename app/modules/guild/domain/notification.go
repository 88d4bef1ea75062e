package guilddomain

import "time"

// Embed colours for audit notifications.
const (
	ColorInfo    = 0x3498db
	ColorSuccess = 0x2ecc71
	ColorDanger  = 0xe74c3c
	ColorWarning = 0xe67e22
	ColorNeutral = 0x2c3e50
	ColorContest = 0x9b59b6
	ColorRole    = 0xf1c40f
)

// Notification is an audit message posted to the guild log channel.
type Notification struct {
	Title       string
	Description string
	Color       int
	Fields      []NotificationField
	Timestamp   time.Time
}

// NotificationField is a single name/value line of a Notification.
type NotificationField struct {
	Name   string
	Value  string
	Inline bool
}
