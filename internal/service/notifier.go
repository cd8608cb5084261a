package service

import "loungepos/internal/notify"

// Notifier is the fan-out seam. The websocket hub implements it; tests use a
// recorder.
type Notifier interface {
	Broadcast(event notify.Event)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Broadcast(notify.Event) {}
