// Package topic provides hierarchical dot-separated topics and wildcard
// matching for the event bus.
//
// Topics name what happened:
//
//	store.committed
//	history.undone
//	history.batch.started
//
// Subscription patterns may contain wildcards:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// so "history.*" matches history.undone but not history.batch.started,
// while "history.**" matches both.
package topic
