package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/alexbilevskiy/tgfocus/internal/archiver"
	"github.com/alexbilevskiy/tgfocus/internal/config"
	"github.com/alexbilevskiy/tgfocus/internal/filter"
	"github.com/alexbilevskiy/tgfocus/internal/folders"
	"github.com/alexbilevskiy/tgfocus/internal/logging"
	"github.com/alexbilevskiy/tgfocus/internal/state"
	"github.com/alexbilevskiy/tgfocus/internal/tdlib"
)

// Run loads the configuration, logs in to Telegram and runs mode.
func Run(ctx context.Context, cfgFile string, mode string) error {
	cfg, err := config.InitConfiguration(cfgFile)
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, os.Stderr)

	store, err := state.NewStore(log, afero.NewOsFs(), cfg.StateDir)
	if err != nil {
		return err
	}

	tdApi := tdlib.NewTdApi(log, cfg)
	if _, err := tdApi.RunTdlib(ctx); err != nil {
		return fmt.Errorf("start tdlib: %w", err)
	}
	defer tdApi.Close(context.Background())

	fm := folders.NewManager(log, tdApi, store)
	excl := filter.Parse(cfg.Exclude, cfg.IgnorePinnedChats)
	log.Info("starting", "mode", mode, "exclusions", excl.Len(), "ignore_pinned", cfg.IgnorePinnedChats)
	a := archiver.New(log, tdApi, store, fm, excl)

	res, err := a.Run(ctx, mode)
	if err != nil {
		return err
	}
	log.Info("done", "mode", mode, "moved", res.Moved)

	return nil
}
