package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"github.com/alexbilevskiy/tgfocus/internal/consts"
)

// Store keeps the two local state documents: the set of chats archived by
// tgfocus and the folder snapshot. Both are only ever replaced atomically.
type Store struct {
	log *slog.Logger
	fs  afero.Fs
	dir string
}

func NewStore(log *slog.Logger, afs afero.Fs, dir string) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := afs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	return &Store{log: log, fs: afs, dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) exists(name string) bool {
	ok, err := afero.Exists(s.fs, s.path(name))
	if err != nil {
		s.log.Error("stat state file", "file", name, "error", err)
		return false
	}

	return ok
}

// AtomicWrite serializes v as indented JSON into a temporary file next to
// name and renames it over the target. On failure the temporary file is
// removed and the target keeps its previous contents.
func (s *Store) AtomicWrite(name string, v any) error {
	target := s.path(name)
	tmp, err := afero.TempFile(s.fs, s.dir, "."+name+".*.tmp")
	if err != nil {
		s.log.Error("create temp file", "file", target, "error", err)
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	err = enc.Encode(v)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = s.fs.Rename(tmpName, target)
	}
	if err != nil {
		if rerr := s.fs.Remove(tmpName); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			s.log.Warn("remove temp file", "file", tmpName, "error", rerr)
		}
		s.log.Error("save file", "file", target, "error", err)
		return fmt.Errorf("save %s: %w", name, err)
	}

	return nil
}

func (s *Store) readJson(name string, dest any) error {
	data, err := afero.ReadFile(s.fs, s.path(name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	return nil
}

func (s *Store) remove(name string) error {
	err := s.fs.Remove(s.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}

	return nil
}

// LoadTrackedChats never fails: an absent or broken file is an empty set.
func (s *Store) LoadTrackedChats() map[int64]struct{} {
	tracked := make(map[int64]struct{})
	if !s.exists(consts.TrackingFile) {
		return tracked
	}
	var ids []int64
	if err := s.readJson(consts.TrackingFile, &ids); err != nil {
		s.log.Error("load state file", "error", err)
		return tracked
	}
	for _, id := range ids {
		tracked[id] = struct{}{}
	}

	return tracked
}

// SaveTrackedChats merges ids into the stored set. The set never shrinks here.
func (s *Store) SaveTrackedChats(ids []int64) error {
	tracked := s.LoadTrackedChats()
	for _, id := range ids {
		tracked[id] = struct{}{}
	}
	merged := make([]int64, 0, len(tracked))
	for id := range tracked {
		merged = append(merged, id)
	}
	slices.Sort(merged)

	return s.AtomicWrite(consts.TrackingFile, merged)
}

func (s *Store) ClearTrackedChats() {
	if err := s.remove(consts.TrackingFile); err != nil {
		s.log.Error("remove tracking file", "error", err)
	}
}

func (s *Store) HasFolders() bool {
	return s.exists(consts.FoldersFile)
}

func (s *Store) SaveFolders(records any) error {
	return s.AtomicWrite(consts.FoldersFile, records)
}

func (s *Store) LoadFolders(dest any) error {
	return s.readJson(consts.FoldersFile, dest)
}

func (s *Store) ClearFolders() error {
	return s.remove(consts.FoldersFile)
}
