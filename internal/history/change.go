package history

import "github.com/dshills/cellundo/internal/event/topic"

// Topics published by a Manager configured with WithBus.
const (
	TopicRecorded        topic.Topic = "history.recorded"
	TopicUndone          topic.Topic = "history.undone"
	TopicRedone          topic.Topic = "history.redone"
	TopicBatchStarted    topic.Topic = "history.batch.started"
	TopicBatchEnded      topic.Topic = "history.batch.ended"
	TopicTrackingPaused  topic.Topic = "history.tracking.paused"
	TopicTrackingResumed topic.Topic = "history.tracking.resumed"
)

// ChangeKind identifies a history transition.
type ChangeKind int

const (
	ChangeRecorded ChangeKind = iota
	ChangeUndone
	ChangeRedone
	ChangeBatchStarted
	ChangeBatchEnded
	ChangeTrackingPaused
	ChangeTrackingResumed
)

// String returns the kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeRecorded:
		return "recorded"
	case ChangeUndone:
		return "undone"
	case ChangeRedone:
		return "redone"
	case ChangeBatchStarted:
		return "batch started"
	case ChangeBatchEnded:
		return "batch ended"
	case ChangeTrackingPaused:
		return "tracking paused"
	case ChangeTrackingResumed:
		return "tracking resumed"
	default:
		return "unknown"
	}
}

// Topic returns the event topic the kind is published on.
func (k ChangeKind) Topic() topic.Topic {
	switch k {
	case ChangeRecorded:
		return TopicRecorded
	case ChangeUndone:
		return TopicUndone
	case ChangeRedone:
		return TopicRedone
	case ChangeBatchStarted:
		return TopicBatchStarted
	case ChangeBatchEnded:
		return TopicBatchEnded
	case ChangeTrackingPaused:
		return TopicTrackingPaused
	case ChangeTrackingResumed:
		return TopicTrackingResumed
	default:
		return "history.unknown"
	}
}

// Change is the payload of every history event.
type Change struct {
	Kind        ChangeKind
	PastDepth   int
	FutureDepth int

	// Manager is the ID of the publishing manager.
	Manager string
}
