// Package events publishes domain events recorded by aggregates.
//
// Services pull pending events from an aggregate after it is persisted and
// hand them to an EventEmitter. InMemoryEventEmitter dispatches to handlers
// registered in the same process; RedisEmitter publishes JSON on a redis
// channel for out-of-process consumers.
package events
