package tdlib

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zelenin/go-tdlib/client"

	"github.com/alexbilevskiy/tgfocus/internal/models"
	"github.com/alexbilevskiy/tgfocus/internal/peer"
)

var floodWaitRe = regexp.MustCompile(`^429 .*retry after (\d+)`)

func GetUsername(usernames *client.Usernames) string {
	if usernames == nil {
		return ""
	}
	if len(usernames.ActiveUsernames) == 0 {
		return ""
	}

	return usernames.ActiveUsernames[0]
}

func chatListFor(archived bool) client.ChatList {
	if archived {
		return &client.ChatListArchive{}
	}

	return &client.ChatListMain{}
}

func isPinned(chat *client.Chat, chatList client.ChatList) bool {
	for _, pos := range chat.Positions {
		if pos.List != nil && pos.List.ChatListConstructor() == chatList.ChatListConstructor() {
			return pos.IsPinned
		}
	}

	return false
}

// @see https://github.com/tdlib/td/blob/fb39e5d74667db915a75a5e58065c59af8e7d8d6/td/generate/scheme/td_api.tl#L4171
func isNotFound(err error) bool {
	return strings.HasPrefix(err.Error(), "404")
}

// asFloodWait converts TDLib "429 Too Many Requests: retry after N" errors
// into a FloodWaitError and passes everything else through.
func asFloodWait(err error) error {
	m := floodWaitRe.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	seconds, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return err
	}

	return &models.FloodWaitError{Seconds: seconds}
}

func peersFromIds(ids []int64) []peer.Peer {
	res := make([]peer.Peer, 0, len(ids))
	for _, id := range ids {
		res = append(res, peer.FromMarked(id))
	}

	return res
}

func richTextFromTd(name *client.ChatFolderName) models.RichText {
	if name == nil || name.Text == nil {
		return models.RichText{}
	}
	rt := models.RichText{Text: name.Text.Text}
	for _, e := range name.Text.Entities {
		if e == nil || e.Type == nil {
			continue
		}
		rt.Entities = append(rt.Entities, models.TextEntity{Offset: e.Offset, Length: e.Length, Type: e.Type.TextEntityTypeConstructor()})
	}

	return rt
}

func folderFromTd(info *client.ChatFolderInfo, folder *client.ChatFolder) *models.Folder {
	f := &models.Folder{
		Variant:      models.VariantFilter,
		Id:           info.Id,
		Title:        richTextFromTd(folder.Name),
		PinnedPeers:  peersFromIds(folder.PinnedChatIds),
		IncludePeers: peersFromIds(folder.IncludedChatIds),
	}
	if folder.Icon != nil {
		f.Emoticon = folder.Icon.Name
	}
	if folder.IsShareable {
		f.Variant = models.VariantChatlist
		f.HasMyInvites = info.HasMyInviteLinks
		return f
	}

	f.ExcludePeers = peersFromIds(folder.ExcludedChatIds)
	f.Contacts = folder.IncludeContacts
	f.NonContacts = folder.IncludeNonContacts
	f.Groups = folder.IncludeGroups
	f.Broadcasts = folder.IncludeChannels
	f.Bots = folder.IncludeBots
	f.ExcludeMuted = folder.ExcludeMuted
	f.ExcludeRead = folder.ExcludeRead
	f.ExcludeArchived = folder.ExcludeArchived

	return f
}

// folderToTd builds a TDLib folder. Title formatting is not restored, only
// its plain text.
func folderToTd(f *models.Folder) *client.ChatFolder {
	folder := &client.ChatFolder{
		Name: &client.ChatFolderName{
			Text: &client.FormattedText{Text: f.Title.Text, Entities: []*client.TextEntity{}},
		},
		PinnedChatIds:   peer.MarkedIDs(f.PinnedPeers),
		IncludedChatIds: peer.MarkedIDs(f.IncludePeers),
		ExcludedChatIds: peer.MarkedIDs(f.ExcludePeers),
	}
	if f.Emoticon != "" {
		folder.Icon = &client.ChatFolderIcon{Name: f.Emoticon}
	}
	if f.Variant == models.VariantChatlist {
		folder.IsShareable = true
		return folder
	}

	folder.IncludeContacts = f.Contacts
	folder.IncludeNonContacts = f.NonContacts
	folder.IncludeGroups = f.Groups
	folder.IncludeChannels = f.Broadcasts
	folder.IncludeBots = f.Bots
	folder.ExcludeMuted = f.ExcludeMuted
	folder.ExcludeRead = f.ExcludeRead
	folder.ExcludeArchived = f.ExcludeArchived

	return folder
}
