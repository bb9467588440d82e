package peer

import (
	"testing"
)

func TestFromMarked(t *testing.T) {
	tests := []struct {
		marked int64
		want   Peer
	}{
		{marked: 118137353, want: User(118137353)},
		{marked: -4001234, want: BasicGroup(4001234)},
		{marked: -1002150910059, want: Channel(2150910059)},
		{marked: 0, want: Peer{}},
	}
	for _, tt := range tests {
		got := FromMarked(tt.marked)
		if got != tt.want {
			t.Errorf("FromMarked(%d) = %v, want %v", tt.marked, got, tt.want)
		}
		if tt.marked != 0 && got.Marked() != tt.marked {
			t.Errorf("FromMarked(%d).Marked() = %d", tt.marked, got.Marked())
		}
	}
}

func TestMarkedIDsSkipsZero(t *testing.T) {
	ids := MarkedIDs([]Peer{User(1), {}, Channel(5)})
	if len(ids) != 2 || ids[0] != 1 || ids[1] != -1000000000005 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestKindString(t *testing.T) {
	if got, want := Channel(1).String(), "channel:1"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
