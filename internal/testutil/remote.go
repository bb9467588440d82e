// Package testutil provides an in-memory stand-in for the Telegram side of
// tgfocus.
package testutil

import (
	"context"
	"fmt"
	"slices"

	"github.com/alexbilevskiy/tgfocus/internal/models"
	"github.com/alexbilevskiy/tgfocus/internal/peer"
)

type MoveCall struct {
	Ids      []int64
	Archived bool
}

type Remote struct {
	Dialogs []models.Dialog
	Folders []*models.Folder

	Unresolvable   map[int64]bool
	FloodOnMove    []int
	FailDelete     map[int32]error
	FailUpdate     error
	FailReorder    error
	FailGetFolders error
	OnMove         func()

	MoveCalls   []MoveCall
	FloodCalls  int
	Deleted     []int32
	Updated     []int32
	Orders      [][]int32
	ListCalls   int
	FolderCalls int
}

func (r *Remote) ListDialogs(ctx context.Context, archived bool) ([]models.Dialog, error) {
	r.ListCalls++
	res := make([]models.Dialog, 0)
	for _, d := range r.Dialogs {
		if d.Archived == archived {
			res = append(res, d)
		}
	}

	return res, nil
}

func (r *Remote) ResolvePeer(ctx context.Context, id int64) (peer.Peer, error) {
	if r.Unresolvable[id] {
		return peer.Peer{}, fmt.Errorf("400 Chat not found")
	}

	return peer.FromMarked(id), nil
}

func (r *Remote) MoveDialogs(ctx context.Context, peers []peer.Peer, archived bool) error {
	if r.OnMove != nil {
		r.OnMove()
	}
	if len(r.FloodOnMove) > 0 {
		wait := r.FloodOnMove[0]
		r.FloodOnMove = r.FloodOnMove[1:]
		if wait > 0 {
			r.FloodCalls++
			return &models.FloodWaitError{Seconds: wait}
		}
	}
	ids := peer.MarkedIDs(peers)
	r.MoveCalls = append(r.MoveCalls, MoveCall{Ids: ids, Archived: archived})
	for i := range r.Dialogs {
		if slices.Contains(ids, r.Dialogs[i].ID()) {
			r.Dialogs[i].Archived = archived
		}
	}

	return nil
}

func (r *Remote) GetFolders(ctx context.Context) ([]*models.Folder, error) {
	r.FolderCalls++
	if r.FailGetFolders != nil {
		return nil, r.FailGetFolders
	}

	return slices.Clone(r.Folders), nil
}

func (r *Remote) UpdateFolder(ctx context.Context, id int32, f *models.Folder) (int32, error) {
	idx := slices.IndexFunc(r.Folders, func(ex *models.Folder) bool { return ex.Id == id })
	if f == nil {
		if err := r.FailDelete[id]; err != nil {
			return 0, err
		}
		if idx >= 0 {
			r.Folders = slices.Delete(r.Folders, idx, idx+1)
		}
		r.Deleted = append(r.Deleted, id)
		return id, nil
	}
	if r.FailUpdate != nil {
		return 0, r.FailUpdate
	}
	if idx >= 0 {
		r.Folders[idx] = f
	} else {
		r.Folders = append(r.Folders, f)
	}
	r.Updated = append(r.Updated, id)

	return id, nil
}

func (r *Remote) ReorderFolders(ctx context.Context, ids []int32) error {
	if r.FailReorder != nil {
		return r.FailReorder
	}
	r.Orders = append(r.Orders, slices.Clone(ids))
	slices.SortStableFunc(r.Folders, func(a, b *models.Folder) int {
		return slices.Index(ids, a.Id) - slices.Index(ids, b.Id)
	})

	return nil
}
