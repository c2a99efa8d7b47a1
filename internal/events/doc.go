// Package events defines the context metadata threaded through every engine
// operation: who emitted an event, for which organization, cluster and
// execution, and at which pipeline stage.
package events
