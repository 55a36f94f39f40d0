// Package event provides the synchronous event bus that connects the state
// store, the history manager and whoever wants to observe them.
//
// Handlers run in the publisher's goroutine, in priority order, before
// Publish returns. This is what lets the store guarantee that a change
// notification has been fully processed by the time a mutation call
// returns.
//
// # Topics
//
//	store.committed          - a mutation was committed to the store
//	history.recorded         - a history entry was pushed
//	history.undone           - an undo step was applied
//	history.redone           - a redo step was applied
//	history.batch.started    - a batch was opened
//
// Subscriptions may use the wildcard patterns of package topic.
//
// # Usage
//
//	bus := event.NewBus(event.WithLogger(logger))
//
//	sub, err := bus.SubscribeFunc("history.**", func(ctx context.Context, ev event.Event) error {
//	    change := ev.Payload.(history.Change)
//	    refreshButtons(change.PastDepth, change.FutureDepth)
//	    return nil
//	}, event.WithPriority(event.PriorityLow))
//	defer bus.Unsubscribe(sub)
//
//	_ = bus.Publish(ctx, event.New("store.committed", commit, "store"))
//
// # Priority Ordering
//
// Lower priority values execute first. Subscriptions with equal priority
// run in subscription order.
package event
