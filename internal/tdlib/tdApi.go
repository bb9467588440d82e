package tdlib

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zelenin/go-tdlib/client"

	"github.com/alexbilevskiy/tgfocus/internal/config"
	"github.com/alexbilevskiy/tgfocus/internal/models"
	"github.com/alexbilevskiy/tgfocus/internal/peer"
)

const (
	loadChatsLimit      = 100
	getChatsLimit       = 10000
	folderUpdateTimeout = 15 * time.Second
)

// TdApi exposes the parts of TDLib tgfocus needs: chat lists, moving chats
// between main list and archive, and chat folder management.
type TdApi struct {
	m                    sync.RWMutex
	log                  *slog.Logger
	cfg                  *config.Config
	tdlibClient          *client.Client
	localChats           map[int64]*client.Chat
	chatFolders          []*client.ChatFolderInfo
	mainChatListPosition int32
	foldersLoaded        chan struct{}
	foldersOnce          sync.Once
}

func NewTdApi(log *slog.Logger, cfg *config.Config) *TdApi {
	return &TdApi{
		log:           log,
		cfg:           cfg,
		localChats:    make(map[int64]*client.Chat),
		foldersLoaded: make(chan struct{}),
	}
}

func (t *TdApi) RunTdlib(ctx context.Context) (*client.User, error) {
	auth := newAuthorizer(t.log, createTdlibParameters(t.cfg))
	go ConsoleInteractor(t.log, auth, t.cfg.Phone, os.Stdin, os.Stdout)

	_, _ = client.SetLogVerbosityLevel(&client.SetLogVerbosityLevelRequest{
		NewVerbosityLevel: t.cfg.TdlibVerbosity,
	})

	tdlibClient, err := client.NewClient(auth, client.WithResultHandler(client.NewCallbackResultHandler(t.UpdatesCallback)))
	if err != nil {
		return nil, fmt.Errorf("NewClient: %w", err)
	}
	t.tdlibClient = tdlibClient

	optionValue, err := tdlibClient.GetOption(&client.GetOptionRequest{
		Name: "version",
	})
	if err != nil {
		return nil, fmt.Errorf("GetOption: %w", err)
	}
	if v, ok := optionValue.(*client.OptionValueString); ok {
		t.log.Debug("TDLib", "version", v.Value)
	}

	me, err := tdlibClient.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetMe: %w", err)
	}
	t.log.Info("logged in", "fname", me.FirstName, "lname", me.LastName, "username", GetUsername(me.Usernames))

	return me, nil
}

func (t *TdApi) Close(ctx context.Context) {
	if t.tdlibClient == nil {
		return
	}
	if _, err := t.tdlibClient.Close(ctx); err != nil {
		t.log.Error("close tdlib client", "error", err)
	}
}

func (t *TdApi) GetChat(ctx context.Context, chatId int64, force bool) (*client.Chat, error) {
	t.m.RLock()
	fullChat, ok := t.localChats[chatId]
	t.m.RUnlock()
	if !force && ok {
		return fullChat, nil
	}
	req := &client.GetChatRequest{ChatId: chatId}
	fullChat, err := t.tdlibClient.GetChat(ctx, req)
	if err == nil {
		t.cacheChat(fullChat)
	}

	return fullChat, err
}

func (t *TdApi) cacheChat(chat *client.Chat) {
	t.m.Lock()
	t.localChats[chat.Id] = chat
	t.m.Unlock()
}

func (t *TdApi) GetChatUsername(ctx context.Context, chat *client.Chat) string {
	switch chat.Type.ChatTypeConstructor() {
	case client.ConstructorChatTypeSupergroup:
		typ := chat.Type.(*client.ChatTypeSupergroup)
		sg, err := t.tdlibClient.GetSupergroup(ctx, &client.GetSupergroupRequest{SupergroupId: typ.SupergroupId})
		if err != nil {
			t.log.Warn("GetChatUsername", "chat", chat.Id, "error", err)
			return ""
		}
		return GetUsername(sg.Usernames)
	case client.ConstructorChatTypePrivate:
		typ := chat.Type.(*client.ChatTypePrivate)
		user, err := t.tdlibClient.GetUser(ctx, &client.GetUserRequest{UserId: typ.UserId})
		if err != nil {
			t.log.Warn("GetChatUsername", "chat", chat.Id, "error", err)
			return ""
		}
		return GetUsername(user.Usernames)
	}

	return ""
}

// ListDialogs loads the whole main (or archive) chat list and returns it in
// list order.
func (t *TdApi) ListDialogs(ctx context.Context, archived bool) ([]models.Dialog, error) {
	chatList := chatListFor(archived)
	for {
		_, err := t.tdlibClient.LoadChats(ctx, &client.LoadChatsRequest{ChatList: chatList, Limit: loadChatsLimit})
		if err == nil {
			continue
		}
		if isNotFound(err) {
			break
		}
		return nil, fmt.Errorf("LoadChats %s: %w", chatList.ChatListConstructor(), asFloodWait(err))
	}

	chats, err := t.tdlibClient.GetChats(ctx, &client.GetChatsRequest{ChatList: chatList, Limit: getChatsLimit})
	if err != nil {
		return nil, fmt.Errorf("GetChats %s: %w", chatList.ChatListConstructor(), asFloodWait(err))
	}

	dialogs := make([]models.Dialog, 0, len(chats.ChatIds))
	for _, chatId := range chats.ChatIds {
		chat, err := t.GetChat(ctx, chatId, true)
		if err != nil {
			t.log.Warn("failed to get chat", "chat", chatId, "error", err)
			continue
		}
		dialogs = append(dialogs, models.Dialog{
			Peer:     peer.FromMarked(chat.Id),
			Title:    chat.Title,
			Username: t.GetChatUsername(ctx, chat),
			Pinned:   isPinned(chat, chatList),
			Archived: archived,
		})
	}

	return dialogs, nil
}

// ResolvePeer makes sure TDLib knows the chat, creating the chat object
// from the user or group id when it is not loaded yet.
func (t *TdApi) ResolvePeer(ctx context.Context, id int64) (peer.Peer, error) {
	p := peer.FromMarked(id)
	if p.IsZero() {
		return p, fmt.Errorf("invalid peer id %d", id)
	}
	if _, err := t.GetChat(ctx, id, false); err == nil {
		return p, nil
	}

	var chat *client.Chat
	var err error
	switch p.Kind {
	case peer.KindUser:
		chat, err = t.tdlibClient.CreatePrivateChat(ctx, &client.CreatePrivateChatRequest{UserId: p.ID})
	case peer.KindBasicGroup:
		chat, err = t.tdlibClient.CreateBasicGroupChat(ctx, &client.CreateBasicGroupChatRequest{BasicGroupId: p.ID})
	case peer.KindChannel:
		chat, err = t.tdlibClient.CreateSupergroupChat(ctx, &client.CreateSupergroupChatRequest{SupergroupId: p.ID})
	}
	if err != nil {
		return peer.Peer{}, fmt.Errorf("resolve %s: %w", p, err)
	}
	t.cacheChat(chat)

	return p, nil
}

func (t *TdApi) MoveDialogs(ctx context.Context, peers []peer.Peer, archived bool) error {
	chatList := chatListFor(archived)
	for _, p := range peers {
		req := &client.AddChatToListRequest{ChatId: p.Marked(), ChatList: chatList}
		if _, err := t.tdlibClient.AddChatToList(ctx, req); err != nil {
			return fmt.Errorf("add chat %d to %s: %w", p.Marked(), chatList.ChatListConstructor(), asFloodWait(err))
		}
	}

	return nil
}

// GetFolders returns all chat folders in display order. The folder list is
// only delivered by TDLib as an update, so this waits for the first one.
func (t *TdApi) GetFolders(ctx context.Context) ([]*models.Folder, error) {
	if err := t.waitFolders(ctx); err != nil {
		return nil, err
	}

	t.m.RLock()
	infos := append([]*client.ChatFolderInfo(nil), t.chatFolders...)
	t.m.RUnlock()

	res := make([]*models.Folder, 0, len(infos))
	for _, info := range infos {
		folder, err := t.tdlibClient.GetChatFolder(ctx, &client.GetChatFolderRequest{ChatFolderId: info.Id})
		if err != nil {
			return nil, fmt.Errorf("GetChatFolder %d: %w", info.Id, asFloodWait(err))
		}
		res = append(res, folderFromTd(info, folder))
	}

	return res, nil
}

func (t *TdApi) UpdateFolder(ctx context.Context, id int32, f *models.Folder) (int32, error) {
	if f == nil {
		req := &client.DeleteChatFolderRequest{ChatFolderId: id, LeaveChatIds: []int64{}}
		if _, err := t.tdlibClient.DeleteChatFolder(ctx, req); err != nil {
			return 0, fmt.Errorf("DeleteChatFolder %d: %w", id, asFloodWait(err))
		}
		return id, nil
	}

	// an id missing from a stale folder list would be created twice
	if err := t.waitFolders(ctx); err != nil {
		return 0, err
	}
	folder := folderToTd(f)
	if t.knownFolder(id) {
		info, err := t.tdlibClient.EditChatFolder(ctx, &client.EditChatFolderRequest{ChatFolderId: id, Folder: folder})
		if err != nil {
			return 0, fmt.Errorf("EditChatFolder %d: %w", id, asFloodWait(err))
		}
		return info.Id, nil
	}

	info, err := t.tdlibClient.CreateChatFolder(ctx, &client.CreateChatFolderRequest{Folder: folder})
	if err != nil {
		return 0, fmt.Errorf("CreateChatFolder %d: %w", id, asFloodWait(err))
	}
	if info.Id != id {
		t.log.Info("folder recreated under new id", "old", id, "new", info.Id)
	}

	return info.Id, nil
}

func (t *TdApi) ReorderFolders(ctx context.Context, ids []int32) error {
	t.m.RLock()
	pos := t.mainChatListPosition
	t.m.RUnlock()

	req := &client.ReorderChatFoldersRequest{ChatFolderIds: ids, MainChatListPosition: pos}
	if _, err := t.tdlibClient.ReorderChatFolders(ctx, req); err != nil {
		return fmt.Errorf("ReorderChatFolders: %w", asFloodWait(err))
	}

	return nil
}

func (t *TdApi) waitFolders(ctx context.Context) error {
	timer := time.NewTimer(folderUpdateTimeout)
	defer timer.Stop()

	select {
	case <-t.foldersLoaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errors.New("chat folders update not received")
	}
}

func (t *TdApi) knownFolder(id int32) bool {
	t.m.RLock()
	defer t.m.RUnlock()
	for _, info := range t.chatFolders {
		if info.Id == id {
			return true
		}
	}

	return false
}

func (t *TdApi) saveChatFolders(upd *client.UpdateChatFolders) {
	t.m.Lock()
	t.chatFolders = upd.ChatFolders
	t.mainChatListPosition = upd.MainChatListPosition
	t.m.Unlock()
	t.foldersOnce.Do(func() { close(t.foldersLoaded) })
	t.log.Debug("chat folders update", "count", len(upd.ChatFolders))
}

func createTdlibParameters(cfg *config.Config) *client.SetTdlibParametersRequest {
	return &client.SetTdlibParametersRequest{
		UseTestDc:           false,
		DatabaseDirectory:   filepath.Join(cfg.TDataDir, cfg.SessionName, "database"),
		FilesDirectory:      filepath.Join(cfg.TDataDir, cfg.SessionName, "files"),
		UseFileDatabase:     false,
		UseChatInfoDatabase: true,
		UseMessageDatabase:  false,
		UseSecretChats:      false,
		ApiId:               cfg.ApiId,
		ApiHash:             cfg.ApiHash,
		SystemLanguageCode:  "en",
		DeviceModel:         "Linux",
		SystemVersion:       "1.0.0",
		ApplicationVersion:  "1.0.0",
	}
}
