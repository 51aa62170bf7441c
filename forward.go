package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"toydbclient/internal/eventbus"
	"toydbclient/internal/ui"
)

// eventForwarder queues bus events for the UI program.
// Forward blocks while the queue is full instead of dropping the event, so a
// completion always reaches the holder unless ctx has ended.
type eventForwarder struct {
	ctx    context.Context
	events chan eventbus.DomainEvent
}

func newEventForwarder(ctx context.Context, size int) *eventForwarder {
	return &eventForwarder{
		ctx:    ctx,
		events: make(chan eventbus.DomainEvent, size),
	}
}

// Forward is an eventbus.EventHandler
func (f *eventForwarder) Forward(e eventbus.DomainEvent) {
	select {
	case f.events <- e:
	default:
		zap.S().Warnw("event channel full, waiting for the UI", "type", e.Type())
		select {
		case f.events <- e:
		case <-f.ctx.Done():
			zap.S().Errorw("dropping event after shutdown", "type", e.Type())
		}
	}
}

// Run hands queued events to send until ctx ends
func (f *eventForwarder) Run(send func(tea.Msg)) {
	for {
		select {
		case e := <-f.events:
			send(ui.EventMsg{Event: e})
		case <-f.ctx.Done():
			return
		}
	}
}
