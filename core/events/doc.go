// Package events defines the allocation events emitted on the event bus.
//
// Available event types:
//   - StageEvent: a transition of the allocator state machine
package events
