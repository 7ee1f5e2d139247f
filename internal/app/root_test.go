package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/injhive/injhive/internal/config"
	apierr "github.com/injhive/injhive/internal/errors"
)

func TestTagToCodeRoundTrip(t *testing.T) {
	codes := []apierr.Code{
		apierr.CodeMissingParameter, apierr.CodeInvalidParameter,
		apierr.CodeProtocolNotFound, apierr.CodeDataNotAvailable,
		apierr.CodeAPIError, apierr.CodeBlocked,
	}
	for _, c := range codes {
		if got := tagToCode(c.Tag()); got != c {
			t.Errorf("tagToCode(%q) = %v, want %v", c.Tag(), got, c)
		}
	}
	if got := tagToCode("SomethingElse"); got != apierr.CodeInternal {
		t.Errorf("unknown tag = %v, want internal", got)
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.Run(cmd, nil)
	if !strings.Contains(buf.String(), "injhive") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestActionCommandsRegistered(t *testing.T) {
	cmds := actionCommands(&config.GlobalFlags{})
	want := []string{"price", "tvl", "yields", "balance", "portfolio", "wallet", "stats", "blocks", "txs", "transfer", "swap"}
	if len(cmds) != len(want) {
		t.Fatalf("commands = %d, want %d", len(cmds), len(want))
	}
	for i, cmd := range cmds {
		if !strings.HasPrefix(cmd.Use, want[i]) {
			t.Errorf("command %d = %q, want prefix %q", i, cmd.Use, want[i])
		}
	}
}

func TestActionsCommandListsRegistry(t *testing.T) {
	cmd := newActionsCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("actions: %v", err)
	}
	for _, name := range []string{"GET_PRICE", "SWAP_TOKENS", "TRANSFER_INJ"} {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("missing %s in output", name)
		}
	}
}
