package tdlib

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/zelenin/go-tdlib/client"
)

func TestAuthorizerRejectsEmailLogin(t *testing.T) {
	var logs bytes.Buffer
	a := newAuthorizer(slog.New(slog.NewTextHandler(&logs, nil)), nil)

	if err := a.Handle(nil, &client.AuthorizationStateWaitEmailAddress{}); err == nil {
		t.Fatalf("email login must be rejected")
	}
	if !strings.Contains(logs.String(), "email login is not supported") {
		t.Fatalf("missing reason in log %q", logs.String())
	}
	state := <-a.State
	if state.AuthorizationStateConstructor() != client.ConstructorAuthorizationStateWaitEmailAddress {
		t.Fatalf("state not published, got %s", state.AuthorizationStateConstructor())
	}
}

func TestAuthorizerReady(t *testing.T) {
	a := newAuthorizer(slog.New(slog.DiscardHandler), nil)
	if err := a.Handle(nil, &client.AuthorizationStateReady{}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	a.Close()
}
