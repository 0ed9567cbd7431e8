package watch

import (
	"context"
	"testing"
)

func TestGetCommand(t *testing.T) {
	t.Parallel()

	cmd := GetCommand()
	if cmd.Name != "watch" {
		t.Errorf("command name = %q; want %q", cmd.Name, "watch")
	}
	if cmd.ArgsUsage == "" {
		t.Error("watch command should document its argument")
	}
}

func TestWatchCommand_BadArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"no address", []string{"watch"}},
		{"two addresses", []string{"watch", "ws://a:1", "ws://b:2"}},
		{"bad address", []string{"watch", "tcp://localhost:80"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := GetCommand().Run(context.Background(), tc.args); err == nil {
				t.Errorf("Run(%v) succeeded, want error", tc.args)
			}
		})
	}
}
