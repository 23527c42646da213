package interfaces

// EventPublisher emits domain events (e.g. OrderExecuted) to downstream
// consumers. Implementations must be safe for concurrent use.
type EventPublisher interface {
	Publish(topic string, event any) error
}
