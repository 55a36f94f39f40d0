package history

import (
	"slices"

	"github.com/dshills/cellundo/internal/store"
)

// History is a copy of a manager's stacks.
type History struct {
	// Past holds undo targets, oldest first.
	Past []*store.Snapshot

	// Present is the snapshot believed to be current.
	Present *store.Snapshot

	// Future holds redo targets, nearest first.
	Future []*store.Snapshot
}

// outcome describes what record did with a notification.
type outcome int

const (
	outcomeRecorded outcome = iota
	outcomePaused
	outcomeBatched
	outcomeUntracked
)

// String returns the outcome name used in log lines.
func (o outcome) String() string {
	switch o {
	case outcomeRecorded:
		return "recorded"
	case outcomePaused:
		return "paused"
	case outcomeBatched:
		return "batched"
	case outcomeUntracked:
		return "untracked"
	default:
		return "unknown"
	}
}

// stack holds the undo/redo state and its transition rules.
// It is not safe for concurrent use; Manager serializes access.
type stack struct {
	past    []*store.Snapshot
	present *store.Snapshot
	future  []*store.Snapshot

	tracking bool
	batching bool

	// tracked is nil when every cell is significant.
	tracked []store.CellID
	reader  Store

	// maxEntries bounds past; 0 means unbounded.
	maxEntries int
}

func newStack(st Store, present *store.Snapshot, cfg config) *stack {
	return &stack{
		present:    present,
		tracking:   cfg.trackingEnabled,
		tracked:    cfg.tracked,
		reader:     st,
		maxEntries: cfg.maxEntries,
	}
}

// record applies one committed (prev, next) transition.
func (s *stack) record(prev, next *store.Snapshot) outcome {
	if !s.tracking {
		s.present = next
		return outcomePaused
	}

	// The batch's undo step was pushed by startBatch.
	if s.batching {
		s.present = next
		return outcomeBatched
	}

	if s.tracked != nil {
		before := Project(s.reader, prev, s.tracked)
		after := Project(s.reader, next, s.tracked)
		if !Changed(before, after) {
			s.present = next
			return outcomeUntracked
		}
	}

	s.pushPast(prev)
	s.present = next
	s.future = nil
	return outcomeRecorded
}

// undo pops the newest past entry and returns the snapshot to restore.
func (s *stack) undo() (*store.Snapshot, bool) {
	if len(s.past) == 0 {
		return nil, false
	}

	last := len(s.past) - 1
	restored := s.merge(s.past[last])

	s.past[last] = nil
	s.past = s.past[:last]
	s.future = append([]*store.Snapshot{s.present}, s.future...)
	s.present = restored
	return restored, true
}

// redo shifts the nearest future entry and returns the snapshot to restore.
func (s *stack) redo() (*store.Snapshot, bool) {
	if len(s.future) == 0 {
		return nil, false
	}

	restored := s.merge(s.future[0])

	s.pushPast(s.present)
	s.future = s.future[1:]
	s.present = restored
	return restored, true
}

// startBatch opens one undo step for everything until endBatch.
func (s *stack) startBatch() {
	s.batching = true
	s.pushPast(s.present)
}

// endBatch reports whether a batch was open.
func (s *stack) endBatch() bool {
	was := s.batching
	s.batching = false
	return was
}

// setTracking reports whether the flag changed.
func (s *stack) setTracking(enabled bool) bool {
	changed := s.tracking != enabled
	s.tracking = enabled
	return changed
}

// merge builds the snapshot an undo/redo to target restores. Without a
// tracked set it is target itself. With one, it is present with only the
// tracked cells taken from target, so untracked cells keep live values.
func (s *stack) merge(target *store.Snapshot) *store.Snapshot {
	if s.tracked == nil {
		return target
	}
	merged := s.present
	for _, id := range s.tracked {
		merged = s.reader.WriteCell(merged, id, s.reader.ReadCell(target, id))
	}
	return merged
}

func (s *stack) pushPast(snap *store.Snapshot) {
	s.past = append(s.past, snap)

	if s.maxEntries > 0 && len(s.past) > s.maxEntries {
		excess := len(s.past) - s.maxEntries
		s.past = s.past[excess:]
	}
}

func (s *stack) snapshot() History {
	return History{
		Past:    slices.Clone(s.past),
		Present: s.present,
		Future:  slices.Clone(s.future),
	}
}
