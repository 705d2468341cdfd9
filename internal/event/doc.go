// Package event provides the observability bus for stagecraft.
//
// The engine publishes what it does (transactions applied, modes switched,
// configuration reloaded) as events on hierarchical dot-separated topics.
// Hosts subscribe with patterns:
//
//	bus := event.NewBus()
//	unsubscribe := bus.Subscribe("mode.**", func(e event.Event) {
//	    log.Printf("%s: %v", e.Topic, e.Payload)
//	})
//	defer unsubscribe()
//
// Pattern wildcards:
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Delivery is synchronous on the publishing goroutine. A panicking handler
// is recovered and counted; it never takes down the publisher.
package event
