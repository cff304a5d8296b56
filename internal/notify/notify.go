// Package notify delivers desktop notifications. Delivery is fire-and-forget:
// failures are logged, never returned.
package notify

// Notifier shows a notification.
type Notifier interface {
	Show(title, body, icon string)
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Show(title, body, icon string) {}

// Message is a recorded notification.
type Message struct {
	Title string
	Body  string
	Icon  string
}

// Recorder records notifications for test assertions.
type Recorder struct {
	Messages []Message
}

// Show records the notification.
func (r *Recorder) Show(title, body, icon string) {
	r.Messages = append(r.Messages, Message{Title: title, Body: body, Icon: icon})
}

// Titles returns the titles of every recorded notification.
func (r *Recorder) Titles() []string {
	out := make([]string, len(r.Messages))
	for i, m := range r.Messages {
		out[i] = m.Title
	}
	return out
}
