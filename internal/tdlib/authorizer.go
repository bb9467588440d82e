package tdlib

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/zelenin/go-tdlib/client"
)

const authStepTimeout = 5 * time.Minute

// authorizer feeds login answers to TDLib. Every state is published on
// State so an interactor can ask for the matching answer.
type authorizer struct {
	log         *slog.Logger
	params      *client.SetTdlibParametersRequest
	PhoneNumber chan string
	Code        chan string
	State       chan client.AuthorizationState
	Password    chan string
}

func newAuthorizer(log *slog.Logger, params *client.SetTdlibParametersRequest) *authorizer {
	return &authorizer{
		log:         log,
		params:      params,
		PhoneNumber: make(chan string, 1),
		Code:        make(chan string, 1),
		State:       make(chan client.AuthorizationState, 10),
		Password:    make(chan string, 1),
	}
}

func (a *authorizer) Handle(tdcl *client.Client, state client.AuthorizationState) error {
	a.State <- state

	ctx, cancel := context.WithTimeout(context.Background(), authStepTimeout)
	defer cancel()

	var err error
	switch state.AuthorizationStateConstructor() {
	case client.ConstructorAuthorizationStateWaitTdlibParameters:
		_, err = tdcl.SetTdlibParameters(ctx, a.params)

	case client.ConstructorAuthorizationStateWaitPhoneNumber:
		_, err = tdcl.SetAuthenticationPhoneNumber(ctx, &client.SetAuthenticationPhoneNumberRequest{
			PhoneNumber: <-a.PhoneNumber,
			Settings:    &client.PhoneNumberAuthenticationSettings{},
		})

	case client.ConstructorAuthorizationStateWaitCode:
		_, err = tdcl.CheckAuthenticationCode(ctx, &client.CheckAuthenticationCodeRequest{Code: <-a.Code})

	case client.ConstructorAuthorizationStateWaitPassword:
		_, err = tdcl.CheckAuthenticationPassword(ctx, &client.CheckAuthenticationPasswordRequest{Password: <-a.Password})

	case client.ConstructorAuthorizationStateReady,
		client.ConstructorAuthorizationStateClosing,
		client.ConstructorAuthorizationStateClosed:
		return nil

	case client.ConstructorAuthorizationStateWaitRegistration:
		a.log.Error("account is not registered, sign up with an official client first")
		return client.NotSupportedAuthorizationState(state)

	case client.ConstructorAuthorizationStateWaitEmailAddress,
		client.ConstructorAuthorizationStateWaitEmailCode:
		a.log.Error("email login is not supported, log in with phone and code")
		return client.NotSupportedAuthorizationState(state)

	default:
		a.log.Error("unsupported authorization state", "state", state.AuthorizationStateConstructor())
		return client.NotSupportedAuthorizationState(state)
	}
	if err != nil {
		a.log.Error("authorization step failed", "state", state.AuthorizationStateConstructor(), "error", err)
	}

	return err
}

func (a *authorizer) Close() {
	close(a.PhoneNumber)
	close(a.Code)
	close(a.State)
	close(a.Password)
}

// ConsoleInteractor answers authorization prompts from in, asking on out.
// The phone number is taken from phone when set.
func ConsoleInteractor(log *slog.Logger, auth *authorizer, phone string, in io.Reader, out io.Writer) {
	reader := bufio.NewReader(in)
	ask := func(prompt string) string {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			log.Error("failed to read authorization input", "error", err)
		}
		return strings.TrimSpace(line)
	}

	for {
		state, ok := <-auth.State
		if !ok {
			log.Debug("authorization process closed")
			return
		}
		log.Debug("authorization state", "state", state.AuthorizationStateConstructor())

		switch state.AuthorizationStateConstructor() {
		case client.ConstructorAuthorizationStateWaitPhoneNumber:
			if phone == "" {
				phone = ask("Enter phone number: ")
			}
			auth.PhoneNumber <- phone

		case client.ConstructorAuthorizationStateWaitCode:
			auth.Code <- ask("Enter code: ")

		case client.ConstructorAuthorizationStateWaitPassword:
			auth.Password <- ask("Enter password: ")

		case client.ConstructorAuthorizationStateReady:
			log.Info("authorization complete")
			return
		}
	}
}
