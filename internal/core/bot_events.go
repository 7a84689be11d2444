package core

type SystemEventType int

const (
	SystemEventRestart SystemEventType = iota
	SystemEventShutdown
	SystemEventReload
)

func (t SystemEventType) String() string {
	switch t {
	case SystemEventRestart:
		return "restart"
	case SystemEventShutdown:
		return "shutdown"
	case SystemEventReload:
		return "reload"
	default:
		return "unknown"
	}
}

type SystemEvent struct {
	Type SystemEventType
	// Requester is the user who asked for the event.
	Requester string
	// Force skips waiting for in-flight work.
	Force bool
}

// EventBus carries system events from commands to the bot loop.
type EventBus struct {
	ch chan SystemEvent
}

func NewEventBus(size int) *EventBus {
	return &EventBus{ch: make(chan SystemEvent, size)}
}

// Publish queues ev and reports false when the queue is full.
func (b *EventBus) Publish(ev SystemEvent) bool {
	select {
	case b.ch <- ev:
		return true
	default:
		return false
	}
}

func (b *EventBus) Events() <-chan SystemEvent {
	return b.ch
}
