package folders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexbilevskiy/tgfocus/internal/models"
	"github.com/alexbilevskiy/tgfocus/internal/peer"
)

type FolderService interface {
	GetFolders(ctx context.Context) ([]*models.Folder, error)
	// UpdateFolder replaces the folder in slot id, or deletes it when f is nil.
	// It returns the slot id the folder ended up in.
	UpdateFolder(ctx context.Context, id int32, f *models.Folder) (int32, error)
	ReorderFolders(ctx context.Context, ids []int32) error
	ResolvePeer(ctx context.Context, id int64) (peer.Peer, error)
}

type SnapshotStorage interface {
	HasFolders() bool
	SaveFolders(records any) error
	LoadFolders(dest any) error
	ClearFolders() error
}

type Skip struct {
	Item   string
	Reason string
}

// Report describes what a best-effort folder operation did and what it had
// to leave out.
type Report struct {
	Folders       []int32
	Skipped       []Skip
	OrderRestored bool
	Err           error
}

func (r *Report) skip(item string, reason string) {
	r.Skipped = append(r.Skipped, Skip{Item: item, Reason: reason})
}

func (r *Report) Ok() bool {
	return r.Err == nil && len(r.Skipped) == 0
}

type Manager struct {
	log    *slog.Logger
	remote FolderService
	store  SnapshotStorage
}

func NewManager(log *slog.Logger, remote FolderService, store SnapshotStorage) *Manager {
	return &Manager{log: log, remote: remote, store: store}
}

func (m *Manager) HasSnapshot() bool {
	return m.store.HasFolders()
}

// Snapshot saves every folder definition to disk and then deletes them
// remotely. Nothing is written or deleted when there are no folders.
func (m *Manager) Snapshot(ctx context.Context) Report {
	var rep Report

	filters, err := m.remote.GetFolders(ctx)
	if err != nil {
		rep.Err = fmt.Errorf("get folders: %w", err)
		m.log.Error("error handling folders", "error", rep.Err)
		return rep
	}

	records := make([]*Record, 0, len(filters))
	for _, f := range filters {
		rec, ok := newRecord(f)
		if !ok {
			m.log.Warn("skipping folder of unknown type", "id", f.Id, "title", f.Title.Text)
			rep.skip(fmt.Sprintf("folder %d", f.Id), "unknown folder type")
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return rep
	}

	if err := m.store.SaveFolders(records); err != nil {
		rep.Err = err
		m.log.Error("error handling folders", "error", err)
		return rep
	}
	m.log.Info("saved folders", "count", len(records))

	for _, rec := range records {
		if _, err := m.remote.UpdateFolder(ctx, rec.Id, nil); err != nil {
			m.log.Error("failed to remove folder", "id", rec.Id, "title", rec.Title, "error", err)
			rep.skip(fmt.Sprintf("folder %d", rec.Id), err.Error())
			continue
		}
		rep.Folders = append(rep.Folders, rec.Id)
	}
	m.log.Info("required folders removed", "count", len(rep.Folders))

	return rep
}

// Restore recreates folders from the snapshot in file order, then restores
// their order. The snapshot is kept if any folder fails to be recreated.
func (m *Manager) Restore(ctx context.Context) Report {
	var rep Report
	if !m.store.HasFolders() {
		return rep
	}

	var records []*Record
	if err := m.store.LoadFolders(&records); err != nil {
		rep.Err = err
		m.log.Error("error restoring folders", "error", err)
		return rep
	}

	for i, rec := range records {
		if rec == nil {
			m.log.Warn("empty folder record", "index", i)
			rep.skip(fmt.Sprintf("record %d", i), "empty record")
			continue
		}
		f, ok := m.buildFolder(ctx, rec, &rep)
		if !ok {
			m.log.Warn("unknown folder type", "type", rec.Type, "id", rec.Id)
			rep.skip(fmt.Sprintf("folder %d", rec.Id), "unknown folder type "+rec.Type)
			continue
		}
		id, err := m.remote.UpdateFolder(ctx, rec.Id, f)
		if err != nil {
			rep.Err = fmt.Errorf("restore folder %d: %w", rec.Id, err)
			m.log.Error("error restoring folders", "error", rep.Err)
			return rep
		}
		rep.Folders = append(rep.Folders, id)
	}
	m.log.Info("restored folders", "count", len(rep.Folders))

	if len(rep.Folders) > 0 {
		if err := m.remote.ReorderFolders(ctx, rep.Folders); err != nil {
			m.log.Error("error restoring folder order", "error", err)
			rep.skip("order", err.Error())
		} else {
			rep.OrderRestored = true
			m.log.Info("restored folder order")
		}
	}

	if err := m.store.ClearFolders(); err != nil {
		rep.Err = err
		m.log.Error("error restoring folders", "error", err)
	}

	return rep
}

func (m *Manager) buildFolder(ctx context.Context, rec *Record, rep *Report) (*models.Folder, bool) {
	variant := rec.variant()
	if variant == models.VariantUnknown {
		return nil, false
	}
	f := &models.Folder{
		Variant:      variant,
		Id:           rec.Id,
		Title:        models.PlainText(rec.Title),
		Emoticon:     rec.Emoticon,
		PinnedPeers:  m.resolve(ctx, rec.PinnedPeers, rep),
		IncludePeers: m.resolve(ctx, rec.IncludePeers, rep),
	}
	switch f.Variant {
	case models.VariantFilter:
		if rules := rec.FilterFields; rules != nil {
			f.Contacts = rules.Contacts
			f.NonContacts = rules.NonContacts
			f.Groups = rules.Groups
			f.Broadcasts = rules.Broadcasts
			f.Bots = rules.Bots
			f.ExcludeMuted = rules.ExcludeMuted
			f.ExcludeRead = rules.ExcludeRead
			f.ExcludeArchived = rules.ExcludeArchived
			f.ExcludePeers = m.resolve(ctx, rules.ExcludePeers, rep)
		} else {
			f.ExcludePeers = []peer.Peer{}
		}
	case models.VariantChatlist:
		if rec.ChatlistFields != nil {
			f.HasMyInvites = rec.HasMyInvites
		}
	}

	return f, true
}

func (m *Manager) resolve(ctx context.Context, ids []int64, rep *Report) []peer.Peer {
	peers := make([]peer.Peer, 0, len(ids))
	for _, id := range ids {
		p, err := m.remote.ResolvePeer(ctx, id)
		if err != nil {
			m.log.Warn("could not resolve peer", "peer", id, "error", err)
			rep.skip(fmt.Sprintf("peer %d", id), err.Error())
			continue
		}
		peers = append(peers, p)
	}

	return peers
}
