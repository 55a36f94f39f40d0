package topic

import "testing"

func TestTopic_Segments(t *testing.T) {
	tests := []struct {
		topic    Topic
		expected []string
	}{
		{Topic("history.batch.started"), []string{"history", "batch", "started"}},
		{Topic("store.committed"), []string{"store", "committed"}},
		{Topic("single"), []string{"single"}},
		{Topic(""), nil},
	}

	for _, tt := range tests {
		t.Run(tt.topic.String(), func(t *testing.T) {
			got := tt.topic.Segments()
			if len(got) != len(tt.expected) {
				t.Fatalf("Segments() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Segments()[%d] = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestTopic_Child(t *testing.T) {
	if got := Topic("history").Child("undone"); got != "history.undone" {
		t.Errorf("Child() = %q", got)
	}
	if got := Topic("").Child("store"); got != "store" {
		t.Errorf("Child() on empty = %q", got)
	}
}

func TestTopic_IsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		valid bool
	}{
		{"store.committed", true},
		{"history", true},
		{"", false},
		{".store", false},
		{"store.", false},
		{"store..committed", false},
	}

	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.valid {
			t.Errorf("%q.IsValid() = %v, want %v", tt.topic, got, tt.valid)
		}
	}
}

func TestTopic_IsWildcard(t *testing.T) {
	if Topic("history.undone").IsWildcard() {
		t.Error("plain topic reported as wildcard")
	}
	if !Topic("history.*").IsWildcard() {
		t.Error("single wildcard not detected")
	}
	if !Topic("**").IsWildcard() {
		t.Error("multi wildcard not detected")
	}
}

func TestTopic_Matches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"store.committed", "store.committed", true},
		{"store.committed", "store.restored", false},
		{"history.undone", "history.*", true},
		{"history.batch.started", "history.*", false},
		{"history.batch.started", "history.**", true},
		{"history", "history.**", true},
		{"history.batch.started", "history.*.started", true},
		{"history.undone", "*.undone", true},
		{"anything.at.all", "**", true},
		{"store", "store.*", false},
		{"history.batch.started", "**.started", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			if got := tt.topic.Matches(tt.pattern); got != tt.want {
				t.Errorf("%q.Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	if got := Join("history", "tracking", "paused"); got != "history.tracking.paused" {
		t.Errorf("Join() = %q", got)
	}
}
