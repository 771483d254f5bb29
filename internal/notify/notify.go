// Package notify routes operator warnings to the log and, when configured, Telegram.
package notify

import (
	"fmt"
	"log"
)

// Sender can send a plain text message.
type Sender interface {
	Send(msg string) error
}

// Dispatcher routes notification events. A nil *Dispatcher only logs.
type Dispatcher struct {
	telegram Sender
}

// New creates a Dispatcher. telegram may be nil (disabled).
func New(telegram Sender) *Dispatcher {
	return &Dispatcher{telegram: telegram}
}

// Warn logs msg and forwards it to Telegram.
func (d *Dispatcher) Warn(msg string) {
	log.Printf("notify: warning: %s", msg)
	if d == nil || d.telegram == nil {
		return
	}
	if err := d.telegram.Send(formatEvent("warning", msg)); err != nil {
		log.Printf("notify: telegram send: %v", err)
	}
}

// Send dispatches an informational event to Telegram only.
func (d *Dispatcher) Send(event string, payload any) {
	if d == nil || d.telegram == nil {
		return
	}
	if err := d.telegram.Send(formatEvent(event, payload)); err != nil {
		log.Printf("notify: telegram send: %v", err)
	}
}

func formatEvent(event string, payload any) string {
	return fmt.Sprintf("[%s] %v", event, payload)
}
