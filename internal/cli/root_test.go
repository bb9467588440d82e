package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, []string, error) {
	t.Helper()
	var calls []string
	run := func(ctx context.Context, cfgFile string, mode string) error {
		calls = append(calls, cfgFile+":"+mode)
		return nil
	}
	cmd := NewRootCmd(run)
	var out, stderr bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr output %q", stderr.String())
	}

	return out.String(), calls, err
}

func TestRootCmdModes(t *testing.T) {
	_, calls, err := execute(t, "ARCHIVE")
	if err != nil || len(calls) != 1 || calls[0] != "config.json:archive" {
		t.Fatalf("unexpected calls %v, err %v", calls, err)
	}

	_, calls, err = execute(t, "--config", "/etc/tgfocus.json", "Unarchive")
	if err != nil || len(calls) != 1 || calls[0] != "/etc/tgfocus.json:unarchive" {
		t.Fatalf("unexpected calls %v, err %v", calls, err)
	}
}

func TestRootCmdUsage(t *testing.T) {
	out, calls, err := execute(t)
	if err != nil || len(calls) != 0 || !strings.Contains(out, usageText) {
		t.Fatalf("missing usage: out %q, calls %v, err %v", out, calls, err)
	}

	out, calls, err = execute(t, "delete")
	if err != nil || len(calls) != 0 || !strings.Contains(out, invalidText) {
		t.Fatalf("invalid option accepted: out %q, calls %v, err %v", out, calls, err)
	}
}

func TestRootCmdPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	cmd := NewRootCmd(func(ctx context.Context, cfgFile string, mode string) error { return boom })
	cmd.SetArgs([]string{"archive"})
	if err := cmd.ExecuteContext(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
}
