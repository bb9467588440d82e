package archiver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexbilevskiy/tgfocus/internal/consts"
	"github.com/alexbilevskiy/tgfocus/internal/folders"
	"github.com/alexbilevskiy/tgfocus/internal/models"
	"github.com/alexbilevskiy/tgfocus/internal/peer"
)

type DialogService interface {
	ListDialogs(ctx context.Context, archived bool) ([]models.Dialog, error)
	MoveDialogs(ctx context.Context, peers []peer.Peer, archived bool) error
}

type TrackingStorage interface {
	LoadTrackedChats() map[int64]struct{}
	SaveTrackedChats(ids []int64) error
	ClearTrackedChats()
}

type FolderManager interface {
	HasSnapshot() bool
	Snapshot(ctx context.Context) folders.Report
	Restore(ctx context.Context) folders.Report
}

type Excluder interface {
	ShouldExclude(d models.Dialog) bool
}

// Result summarizes one archive or unarchive run.
type Result struct {
	Moved   int
	Batches []int
	Folders *folders.Report
}

type Archiver struct {
	log      *slog.Logger
	remote   DialogService
	store    TrackingStorage
	folders  FolderManager
	excluder Excluder

	batchSize int
	sleep     func(ctx context.Context, d time.Duration) error
}

func New(log *slog.Logger, remote DialogService, store TrackingStorage, fm FolderManager, excluder Excluder) *Archiver {
	return &Archiver{
		log:       log,
		remote:    remote,
		store:     store,
		folders:   fm,
		excluder:  excluder,
		batchSize: consts.BatchSize,
		sleep:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (a *Archiver) Run(ctx context.Context, mode string) (Result, error) {
	switch mode {
	case consts.ModeArchive:
		return a.Archive(ctx)
	case consts.ModeUnarchive:
		return a.Unarchive(ctx)
	}

	return Result{}, fmt.Errorf("unknown mode %q", mode)
}

// Archive moves every non-excluded dialog of the main list to the archive.
// Tracked ids and the folder snapshot are persisted before the first move so
// an interrupted run can still be undone.
func (a *Archiver) Archive(ctx context.Context) (Result, error) {
	var res Result

	dialogs, err := a.remote.ListDialogs(ctx, false)
	if err != nil {
		return res, fmt.Errorf("list dialogs: %w", err)
	}

	toMove := make([]peer.Peer, 0, len(dialogs))
	toTrack := make([]int64, 0, len(dialogs))
	for _, d := range dialogs {
		if a.excluder.ShouldExclude(d) {
			a.log.Debug("skipping (excluded)", "title", d.Title, "id", d.ID())
			continue
		}
		toMove = append(toMove, d.Peer)
		toTrack = append(toTrack, d.ID())
	}

	if len(toMove) == 0 {
		a.log.Info("no dialogs to archive")
		return res, nil
	}
	a.log.Info("dialogs to archive", "count", len(toMove))

	if err := a.store.SaveTrackedChats(toTrack); err != nil {
		a.log.Error("failed to save tracked chats", "error", err)
	}
	rep := a.folders.Snapshot(ctx)
	a.logReport("snapshot", rep)
	res.Folders = &rep

	res.Batches, err = a.moveBatches(ctx, toMove, true)
	res.Moved = sum(res.Batches)

	return res, err
}

// Unarchive moves tracked dialogs back from the archive and restores the
// saved folders. Dialogs archived by hand are never touched.
func (a *Archiver) Unarchive(ctx context.Context) (Result, error) {
	var res Result

	tracked := a.store.LoadTrackedChats()
	if len(tracked) == 0 && !a.folders.HasSnapshot() {
		a.log.Info("no tracked chats or folders to restore")
		return res, nil
	}

	dialogs, err := a.remote.ListDialogs(ctx, true)
	if err != nil {
		return res, fmt.Errorf("list archived dialogs: %w", err)
	}

	toMove := make([]peer.Peer, 0, len(tracked))
	for _, d := range dialogs {
		if a.excluder.ShouldExclude(d) {
			a.log.Debug("skipping (excluded)", "title", d.Title, "id", d.ID())
			continue
		}
		if _, ok := tracked[d.ID()]; !ok {
			continue
		}
		toMove = append(toMove, d.Peer)
	}

	if len(toMove) == 0 {
		a.log.Info("no dialogs to unarchive")
		rep := a.folders.Restore(ctx)
		a.logReport("restore", rep)
		res.Folders = &rep
		return res, nil
	}
	a.log.Info("dialogs to unarchive", "count", len(toMove))

	res.Batches, err = a.moveBatches(ctx, toMove, false)
	res.Moved = sum(res.Batches)
	if err != nil {
		return res, err
	}

	rep := a.folders.Restore(ctx)
	a.logReport("restore", rep)
	res.Folders = &rep
	a.store.ClearTrackedChats()

	return res, nil
}

func (a *Archiver) moveBatches(ctx context.Context, peers []peer.Peer, archive bool) ([]int, error) {
	verb := "unarchived"
	if archive {
		verb = "archived"
	}

	batches := make([]int, 0, len(peers)/a.batchSize+1)
	for start := 0; start < len(peers); start += a.batchSize {
		end := min(start+a.batchSize, len(peers))
		batch := peers[start:end]

		err := a.remote.MoveDialogs(ctx, batch, archive)
		var flood *models.FloodWaitError
		if errors.As(err, &flood) {
			a.log.Warn("flood wait", "seconds", flood.Seconds)
			if err := a.sleep(ctx, flood.Duration()); err != nil {
				return batches, err
			}
			err = a.remote.MoveDialogs(ctx, batch, archive)
		}
		if err != nil {
			return batches, fmt.Errorf("move dialogs %d-%d: %w", start, end, err)
		}

		batches = append(batches, len(batch))
		a.log.Info(verb+" dialogs", "count", len(batch))
	}

	return batches, nil
}

func (a *Archiver) logReport(op string, rep folders.Report) {
	if rep.Ok() {
		return
	}
	a.log.Warn("folder "+op+" incomplete", "folders", len(rep.Folders), "skipped", len(rep.Skipped), "failed", rep.Err != nil)
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}

	return n
}
