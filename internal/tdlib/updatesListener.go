package tdlib

import (
	"context"

	"github.com/zelenin/go-tdlib/client"
)

func (t *TdApi) UpdatesCallback(ctx context.Context, update client.Type) {
	switch update.GetType() {
	case client.TypeUpdate:
		switch update.GetConstructor() {
		case client.ConstructorUpdateChatFolders:
			upd := update.(*client.UpdateChatFolders)
			t.saveChatFolders(upd)

		case client.ConstructorUpdateNewChat:
			upd := update.(*client.UpdateNewChat)
			t.cacheChat(upd.Chat)

		case client.ConstructorUpdateConnectionState:
			upd := update.(*client.UpdateConnectionState)
			t.log.Debug("connection state changed", "state", upd.State.ConnectionStateConstructor())
		}

	case client.TypeChat:
		upd := update.(*client.Chat)
		t.cacheChat(upd)
	}
}
