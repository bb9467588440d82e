package models

import (
	"fmt"
	"time"

	"github.com/alexbilevskiy/tgfocus/internal/peer"
)

type Dialog struct {
	Peer     peer.Peer
	Title    string
	Username string
	Pinned   bool
	Archived bool
}

func (d Dialog) ID() int64 {
	return d.Peer.Marked()
}

type FolderVariant string

const (
	VariantUnknown  FolderVariant = ""
	VariantFilter   FolderVariant = "DialogFilter"
	VariantChatlist FolderVariant = "DialogFilterChatlist"
)

type TextEntity struct {
	Offset int32
	Length int32
	Type   string
}

// RichText is a folder title as the remote service stores it.
type RichText struct {
	Text     string
	Entities []TextEntity
}

func PlainText(s string) RichText {
	return RichText{Text: s}
}

type Folder struct {
	Variant  FolderVariant
	Id       int32
	Title    RichText
	Emoticon string

	PinnedPeers  []peer.Peer
	IncludePeers []peer.Peer
	ExcludePeers []peer.Peer

	Contacts        bool
	NonContacts     bool
	Groups          bool
	Broadcasts      bool
	Bots            bool
	ExcludeMuted    bool
	ExcludeRead     bool
	ExcludeArchived bool

	HasMyInvites bool
}

// FloodWaitError is returned by the remote service when a call must not be
// repeated before Seconds have passed.
type FloodWaitError struct {
	Seconds int
}

func (e *FloodWaitError) Error() string {
	return fmt.Sprintf("flood wait: retry after %d seconds", e.Seconds)
}

func (e *FloodWaitError) Duration() time.Duration {
	return time.Duration(e.Seconds) * time.Second
}
