// Package flash stores one-shot user messages in the session.
package flash

import (
	"encoding/gob"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
)

// Category is the bulma notification modifier a message is shown with.
type Category string

const (
	Success Category = "is-success"
	Danger  Category = "is-danger"
	Info    Category = "is-info"
	Warning Category = "is-warning"
)

// Message is a single flashed message.
type Message struct {
	Text     string
	Category Category
}

func init() {
	// flashes are gob encoded into the session cookie
	gob.Register(Message{})
}

// Add queues a message for the next rendered page.
// The session still has to be saved by the caller.
func Add(session sessions.Session, category Category, text string) {
	log.Info("flash", "category", category, "message", text)
	session.AddFlash(Message{Text: text, Category: category})
}

// Pop returns and removes all queued messages.
func Pop(session sessions.Session) []Message {
	raw := session.Flashes()
	msgs := make([]Message, 0, len(raw))
	for _, r := range raw {
		switch m := r.(type) {
		case Message:
			msgs = append(msgs, m)
		case string:
			msgs = append(msgs, Message{Text: m, Category: Info})
		}
	}
	return msgs
}
