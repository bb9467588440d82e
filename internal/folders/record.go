package folders

import (
	"github.com/alexbilevskiy/tgfocus/internal/consts"
	"github.com/alexbilevskiy/tgfocus/internal/models"
	"github.com/alexbilevskiy/tgfocus/internal/peer"
)

// Record is the on-disk form of one folder definition. Peers are stored as
// marked chat ids.
type Record struct {
	Type         string  `json:"type"`
	Id           int32   `json:"id"`
	Title        string  `json:"title"`
	Emoticon     string  `json:"emoticon"`
	PinnedPeers  []int64 `json:"pinned_peers"`
	IncludePeers []int64 `json:"include_peers"`

	*FilterFields
	*ChatlistFields
}

type FilterFields struct {
	Contacts        bool    `json:"contacts"`
	NonContacts     bool    `json:"non_contacts"`
	Groups          bool    `json:"groups"`
	Broadcasts      bool    `json:"broadcasts"`
	Bots            bool    `json:"bots"`
	ExcludeMuted    bool    `json:"exclude_muted"`
	ExcludeRead     bool    `json:"exclude_read"`
	ExcludeArchived bool    `json:"exclude_archived"`
	ExcludePeers    []int64 `json:"exclude_peers"`
}

type ChatlistFields struct {
	HasMyInvites bool `json:"has_my_invites"`
}

// variant reports the folder kind, defaulting to a standard filter for
// records written before the type tag existed.
func (r *Record) variant() models.FolderVariant {
	switch r.Type {
	case "", consts.FolderTypeFilter:
		return models.VariantFilter
	case consts.FolderTypeChatlist:
		return models.VariantChatlist
	}

	return models.VariantUnknown
}

func newRecord(f *models.Folder) (*Record, bool) {
	r := &Record{
		Id:           f.Id,
		Title:        f.Title.Text,
		Emoticon:     f.Emoticon,
		PinnedPeers:  peer.MarkedIDs(f.PinnedPeers),
		IncludePeers: peer.MarkedIDs(f.IncludePeers),
	}
	switch f.Variant {
	case models.VariantFilter:
		r.Type = consts.FolderTypeFilter
		r.FilterFields = &FilterFields{
			Contacts:        f.Contacts,
			NonContacts:     f.NonContacts,
			Groups:          f.Groups,
			Broadcasts:      f.Broadcasts,
			Bots:            f.Bots,
			ExcludeMuted:    f.ExcludeMuted,
			ExcludeRead:     f.ExcludeRead,
			ExcludeArchived: f.ExcludeArchived,
			ExcludePeers:    peer.MarkedIDs(f.ExcludePeers),
		}
	case models.VariantChatlist:
		r.Type = consts.FolderTypeChatlist
		r.ChatlistFields = &ChatlistFields{HasMyInvites: f.HasMyInvites}
	default:
		return nil, false
	}

	return r, true
}
