package tdlib

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/zelenin/go-tdlib/client"

	"github.com/alexbilevskiy/tgfocus/internal/config"
	"github.com/alexbilevskiy/tgfocus/internal/models"
)

func TestUpdateFolderWaitsForFolderList(t *testing.T) {
	api := NewTdApi(slog.New(slog.DiscardHandler), &config.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := api.UpdateFolder(ctx, 3, &models.Folder{Variant: models.VariantFilter, Id: 3, Title: models.PlainText("Work")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled before the folder list arrives", err)
	}

	api.UpdatesCallback(context.Background(), &client.UpdateChatFolders{
		ChatFolders: []*client.ChatFolderInfo{{Id: 3}},
	})
	if err := api.waitFolders(context.Background()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !api.knownFolder(3) || api.knownFolder(4) {
		t.Fatalf("folder list not applied")
	}
}
