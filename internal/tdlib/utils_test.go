package tdlib

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zelenin/go-tdlib/client"

	"github.com/alexbilevskiy/tgfocus/internal/models"
	"github.com/alexbilevskiy/tgfocus/internal/peer"
)

func TestAsFloodWait(t *testing.T) {
	err := asFloodWait(errors.New("429 Too Many Requests: retry after 17"))
	var flood *models.FloodWaitError
	if !errors.As(err, &flood) || flood.Seconds != 17 {
		t.Fatalf("expected flood wait of 17s, got %v", err)
	}

	plain := errors.New("400 Chat not found")
	if got := asFloodWait(plain); got != plain {
		t.Fatalf("non-flood error must pass through, got %v", got)
	}
}

func TestIsPinned(t *testing.T) {
	chat := &client.Chat{Positions: []*client.ChatPosition{
		{List: &client.ChatListArchive{}, IsPinned: false},
		{List: &client.ChatListMain{}, IsPinned: true},
	}}
	if !isPinned(chat, chatListFor(false)) {
		t.Fatalf("expected pinned in main list")
	}
	if isPinned(chat, chatListFor(true)) {
		t.Fatalf("expected not pinned in archive")
	}
}

func TestFolderConversion(t *testing.T) {
	info := &client.ChatFolderInfo{Id: 3, HasMyInviteLinks: false}
	td := &client.ChatFolder{
		Name:            &client.ChatFolderName{Text: &client.FormattedText{Text: "Work"}},
		Icon:            &client.ChatFolderIcon{Name: "Work"},
		PinnedChatIds:   []int64{-1002150910059},
		IncludedChatIds: []int64{118137353},
		ExcludedChatIds: []int64{-4001},
		IncludeGroups:   true,
		IncludeChannels: true,
		ExcludeMuted:    true,
	}

	f := folderFromTd(info, td)
	want := &models.Folder{
		Variant:      models.VariantFilter,
		Id:           3,
		Title:        models.PlainText("Work"),
		Emoticon:     "Work",
		PinnedPeers:  []peer.Peer{peer.Channel(2150910059)},
		IncludePeers: []peer.Peer{peer.User(118137353)},
		ExcludePeers: []peer.Peer{peer.BasicGroup(4001)},
		Groups:       true,
		Broadcasts:   true,
		ExcludeMuted: true,
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("folderFromTd (-want +got):\n%s", diff)
	}

	back := folderToTd(f)
	if back.Name.Text.Text != "Work" || back.Icon.Name != "Work" || !back.IncludeChannels || !back.ExcludeMuted {
		t.Fatalf("unexpected folder %+v", back)
	}
	if diff := cmp.Diff(td.ExcludedChatIds, back.ExcludedChatIds); diff != "" {
		t.Fatalf("excluded (-want +got):\n%s", diff)
	}
}

func TestShareableFolderConversion(t *testing.T) {
	info := &client.ChatFolderInfo{Id: 5, HasMyInviteLinks: true}
	td := &client.ChatFolder{
		Name:            &client.ChatFolderName{Text: &client.FormattedText{Text: "Shared"}},
		IsShareable:     true,
		IncludedChatIds: []int64{-1000000000042},
	}

	f := folderFromTd(info, td)
	if f.Variant != models.VariantChatlist || !f.HasMyInvites || f.Emoticon != "" {
		t.Fatalf("unexpected folder %+v", f)
	}
	if back := folderToTd(f); !back.IsShareable || back.Icon != nil {
		t.Fatalf("unexpected td folder %+v", back)
	}
}

func TestGetUsername(t *testing.T) {
	if got := GetUsername(nil); got != "" {
		t.Fatalf("got %q", got)
	}
	if got := GetUsername(&client.Usernames{ActiveUsernames: []string{"durov", "d"}}); got != "durov" {
		t.Fatalf("got %q", got)
	}
}
